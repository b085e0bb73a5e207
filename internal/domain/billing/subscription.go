package billing

import (
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/domain/user"
)

const (
	PlanFree    = "FREE"
	PlanMonthly = "MONTHLY"
	PlanYearly  = "YEARLY"

	SubscriptionActive   = "ACTIVE"
	SubscriptionPastDue  = "PAST_DUE"
	SubscriptionCanceled = "CANCELED"
	SubscriptionExpired  = "EXPIRED"
)

var (
	Plans                = []string{PlanFree, PlanMonthly, PlanYearly}
	SubscriptionStatuses = []string{SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled, SubscriptionExpired}
)

type Subscription struct {
	ID     string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string     `gorm:"column:user_id;type:varchar(36);not null;index" json:"userId"`
	User   *user.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	Plan               string     `gorm:"column:plan;not null" json:"plan"`
	Status             string     `gorm:"column:status;not null;default:'ACTIVE';index" json:"status"`
	CurrentPeriodStart *time.Time `gorm:"column:current_period_start" json:"currentPeriodStart"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end" json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool       `gorm:"column:cancel_at_period_end;not null;default:false" json:"cancelAtPeriodEnd"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Subscription) TableName() string { return "subscriptions" }
