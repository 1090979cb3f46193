// Package template renders the customer-facing HTML documents (vouchers and
// quotes) and the short text snippets used in voucher emails.
package template

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"sync"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"
)

// Document names an embedded HTML document
type Document string

const (
	DocumentVoucher Document = "voucher.html"
	DocumentQuote   Document = "quote.html"
)

//go:embed templates/*.html
var documents embed.FS

// Renderer is responsible for rendering templates
type Renderer struct {
	mu        sync.Mutex
	documents *template.Template
	snippets  map[string]*texttemplate.Template
}

// NewRenderer parses the embedded documents
func NewRenderer() (*Renderer, error) {
	docs, err := template.New("documents").Funcs(funcMap(NewContext())).ParseFS(documents, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse documents: %w", err)
	}
	return &Renderer{
		documents: docs,
		snippets:  make(map[string]*texttemplate.Template),
	}, nil
}

// generateTemplateName generates a unique name for a template based on its content
func generateTemplateName(tmpl string) string {
	hash := sha256.Sum256([]byte(tmpl))
	return fmt.Sprintf("tmpl_%s", hex.EncodeToString(hash[:8]))
}

// RenderDocument renders one of the embedded HTML documents
func (r *Renderer) RenderDocument(doc Document, ctx *Context) ([]byte, error) {
	r.mu.Lock()
	t, err := r.documents.Clone()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.Funcs(funcMap(ctx)).ExecuteTemplate(&buf, string(doc), ctx); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", doc, err)
	}
	return buf.Bytes(), nil
}

// Render renders a plain text snippet such as an email subject. Parsed
// snippets are cached by content.
func (r *Renderer) Render(tmpl string, ctx *Context) (string, error) {
	name := generateTemplateName(tmpl)

	r.mu.Lock()
	t, ok := r.snippets[name]
	if !ok {
		var err error
		fm := sprig.TxtFuncMap()
		fm["money"] = money
		fm["day"] = day
		fm["env"] = func(string) string { return "" }
		t, err = texttemplate.New(name).Funcs(fm).Parse(tmpl)
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		r.snippets[name] = t
	}
	r.mu.Unlock()

	t, err := t.Clone()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Funcs(texttemplate.FuncMap{"env": ctx.envFunc()}).Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
