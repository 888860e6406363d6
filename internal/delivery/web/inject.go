package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrContainerNotFound = errors.New("quiz container not found in host page")

// Injector places a rendered quiz into an existing host page.
type Injector struct {
	renderer *Renderer
	logger   *zap.Logger
}

// NewInjector creates a new Injector.
func NewInjector(renderer *Renderer, logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Injector{renderer: renderer, logger: logger}
}

// Inject replaces the children of the element with containerID by fragment and
// makes sure the feedback script is present once at the end of body.
// When the container does not exist the host page is left alone and
// ErrContainerNotFound is returned.
func (i *Injector) Inject(host io.Reader, containerID string, fragment template.HTML) ([]byte, error) {
	doc, err := html.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}

	container := findByID(doc, containerID)
	if container == nil {
		i.logger.Error("critical: quiz container missing, quiz not rendered",
			zap.String("container_id", containerID),
		)
		return nil, ErrContainerNotFound
	}

	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		container.RemoveChild(c)
		c = next
	}

	nodes, err := html.ParseFragment(strings.NewReader(string(fragment)), container)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	if findByID(doc, ScriptID) == nil {
		if err := i.appendScript(doc); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render host page: %w", err)
	}
	return buf.Bytes(), nil
}

func (i *Injector) appendScript(doc *html.Node) error {
	body := findElement(doc, atom.Body)
	if body == nil {
		return errors.New("host page has no body")
	}

	script, err := i.renderer.Script()
	if err != nil {
		return err
	}

	nodes, err := html.ParseFragment(strings.NewReader(string(script)), body)
	if err != nil {
		return fmt.Errorf("parse script: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
