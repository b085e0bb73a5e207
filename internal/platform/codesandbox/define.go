package codesandbox

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

const defineURL = "https://codesandbox.io/api/v1/sandboxes/define"

const (
	TemplateReact  = "react"
	TemplateStatic = "static"

	DefaultLanguage = "javascript"
	DefaultTitle    = "Code Playground"
)

var (
	ErrEmptyCode = errors.New("code must be a non-empty string")
	// ErrMissingDefaultApp carries the example shown to editors.
	ErrMissingDefaultApp = errors.New("React code must export a default App component.\n\nExample:\nexport default function App() {\n  return <div>Hello React</div>;\n}")

	defaultAppExport = regexp.MustCompile(`export\s+default\s+(function\s+App|App)`)
	unsafeTitleChars = regexp.MustCompile(`[^a-z0-9-]`)
)

// Sandbox holds the define-API URLs. The parameters blob doubles as the id.
type Sandbox struct {
	SandboxID  string `json:"sandboxId"`
	SandboxURL string `json:"sandboxUrl"`
	EditorURL  string `json:"editorUrl"`
	EmbedURL   string `json:"embedUrl"`
}

type file struct {
	Content string `json:"content"`
}

type parameters struct {
	Files    map[string]file `json:"files"`
	Template string          `json:"template"`
}

// Define builds a sandbox for a code snippet. language is one of react,
// html, css or javascript; anything else is treated as javascript.
func Define(code, language, title string) (Sandbox, error) {
	if strings.TrimSpace(code) == "" {
		return Sandbox{}, ErrEmptyCode
	}
	if language == "" {
		language = DefaultLanguage
	}
	if title == "" {
		title = DefaultTitle
	}

	files, template, err := filesFor(code, language, safeTitle(title))
	if err != nil {
		return Sandbox{}, err
	}
	return encode(files, template)
}

func filesFor(code, language, name string) (map[string]string, string, error) {
	switch language {
	case "react":
		if !defaultAppExport.MatchString(code) {
			return nil, "", ErrMissingDefaultApp
		}
		pkg, err := reactPackageJSON(name)
		if err != nil {
			return nil, "", err
		}
		return map[string]string{
			"package.json":      pkg,
			"public/index.html": reactIndexHTML,
			"src/index.js":      reactEntry,
			"src/App.js":        code,
		}, TemplateReact, nil
	case "html":
		return map[string]string{"index.html": code}, TemplateStatic, nil
	case "css":
		return map[string]string{"index.html": cssPage(code)}, TemplateStatic, nil
	default:
		return map[string]string{"index.html": scriptPage(code)}, TemplateStatic, nil
	}
}

func encode(files map[string]string, template string) (Sandbox, error) {
	p := parameters{Files: make(map[string]file, len(files)), Template: template}
	for path, content := range files {
		p.Files[path] = file{Content: content}
	}
	raw, err := marshal(p)
	if err != nil {
		return Sandbox{}, err
	}
	id := base64.RawURLEncoding.EncodeToString(raw)
	url := defineURL + "?parameters=" + id
	return Sandbox{
		SandboxID:  id,
		SandboxURL: url,
		EditorURL:  url,
		EmbedURL:   url + "&embed=1",
	}, nil
}

// Decode reverses the parameters blob of a sandbox id.
func Decode(id string) (map[string]string, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return nil, "", err
	}
	var p parameters
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, "", err
	}
	out := make(map[string]string, len(p.Files))
	for path, f := range p.Files {
		out[path] = f.Content
	}
	return out, p.Template, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func safeTitle(title string) string {
	s := unsafeTitleChars.ReplaceAllString(strings.ToLower(title), "-")
	if len(s) > 50 {
		s = s[:50]
	}
	if s == "" {
		return "playground"
	}
	return s
}

func reactPackageJSON(name string) (string, error) {
	pkg := struct {
		Name         string `json:"name"`
		Private      bool   `json:"private"`
		Dependencies struct {
			React    string `json:"react"`
			ReactDOM string `json:"react-dom"`
		} `json:"dependencies"`
	}{Name: name, Private: true}
	pkg.Dependencies.React = "^18.2.0"
	pkg.Dependencies.ReactDOM = "^18.2.0"
	raw, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

const reactIndexHTML = `<!DOCTYPE html>
<html>
  <body>
    <div id="root"></div>
  </body>
</html>`

const reactEntry = `
import React from "react";
import { createRoot } from "react-dom/client";
import App from "./App";

const root = createRoot(document.getElementById("root"));
root.render(<App />);
`

func cssPage(css string) string {
	return `<!DOCTYPE html>
<html>
  <head>
    <style>` + css + `</style>
  </head>
  <body>
    <button class="btn">Button</button>
    <div class="card">Card</div>
  </body>
</html>`
}

func scriptPage(js string) string {
	return `<!DOCTYPE html>
<html>
  <body>
    <script>
` + js + `
    </script>
  </body>
</html>`
}
