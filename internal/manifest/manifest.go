package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	// Path is the manifest location inside a jar
	Path = "META-INF/MANIFEST.MF"

	// PremiumAttribute marks the premium build of the application
	PremiumAttribute = "Clash-Premium"
)

// Metadata is what the starter needs to know about the application jar
type Metadata struct {
	IsPremium bool
}

// Attributes are the main-section attributes of a jar manifest
type Attributes map[string]string

// Get returns the value of name, matched case-insensitively as jar
// attribute names are
func (a Attributes) Get(name string) (string, bool) {
	if v, ok := a[name]; ok {
		return v, true
	}
	for k, v := range a {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Parse reads the main section of a manifest. Continuation lines (starting
// with a single space) are joined to the previous value.
func Parse(r io.Reader) (Attributes, error) {
	attrs := Attributes{}

	scanner := bufio.NewScanner(r)
	var lineNum int
	var last string

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		// A blank line ends the main section
		if line == "" {
			break
		}

		if strings.HasPrefix(line, " ") {
			if last == "" {
				return nil, fmt.Errorf("line %d: continuation without attribute", lineNum)
			}
			attrs[last] += line[1:]
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		last = strings.TrimSpace(name)
		attrs[last] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	return attrs, nil
}

// Resolve reads the application metadata from the manifest of the jar at
// path
func Resolve(path string) (*Metadata, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	var entry *zip.File
	for _, f := range rc.File {
		if f.Name == Path {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%s not found in %s", Path, path)
	}

	r, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", Path, err)
	}
	defer r.Close()

	attrs, err := Parse(r)
	if err != nil {
		return nil, err
	}

	return fromAttributes(attrs)
}

func fromAttributes(attrs Attributes) (*Metadata, error) {
	premium, ok := attrs.Get(PremiumAttribute)
	if !ok {
		return nil, fmt.Errorf("property '%s' not found", PremiumAttribute)
	}
	return &Metadata{IsPremium: premium == "true"}, nil
}
