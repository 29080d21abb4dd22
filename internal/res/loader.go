package res

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when a local source exists in no search path.
var ErrNotFound = errors.New("res: source not found")

// DefaultMaxBytes bounds the size of a loaded source.
const DefaultMaxBytes = 32 << 20

// Resource is a loaded document source.
type Resource struct {
	// URL is the resolved location the data came from
	URL string
	// Name is a file name whose extension identifies the format
	Name     string
	Data     []byte
	MimeType string
}

// Ext returns the lower-case extension of the resource name, falling back to
// the MIME type when the name carries none.
func (r *Resource) Ext() string {
	if ext := strings.ToLower(filepath.Ext(r.Name)); ext != "" {
		return ext
	}
	return extensionFor(r.MimeType)
}

// Loader reads document sources from local paths, http(s) URLs and data URLs.
type Loader struct {
	// Base URL or file path for resolving relative references
	BaseURL string
	// MaxBytes caps every read; zero means DefaultMaxBytes
	MaxBytes int64

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
}

// NewLoader creates a new source loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL:     baseURL,
		cache:       make(map[string]*Resource),
		searchPaths: []string{},
		client:      &http.Client{},
	}
}

// AddSearchPath adds a directory to search for local sources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a source. Remote and data URLs are cached by reference; local
// files are read every time so edits on disk are picked up.
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[ref]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	if strings.HasPrefix(ref, "data:") {
		res, err := parseDataURL(ref)
		if err != nil {
			return nil, err
		}
		l.store(ref, res)
		return res, nil
	}

	resolved, err := l.resolveURL(ref)
	if err != nil {
		return nil, err
	}

	if isRemote(resolved) {
		res, err := l.loadRemote(ctx, resolved)
		if err != nil {
			return nil, err
		}
		l.store(ref, res)
		return res, nil
	}
	return l.loadLocal(resolved)
}

func (l *Loader) store(ref string, res *Resource) {
	l.cacheLock.Lock()
	l.cache[ref] = res
	l.cacheLock.Unlock()
}

func (l *Loader) limit() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return DefaultMaxBytes
}

// readAll reads r, failing when it holds more than the loader's limit.
func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	n := l.limit()
	data, err := io.ReadAll(io.LimitReader(r, n+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > n {
		return nil, fmt.Errorf("res: source larger than %d bytes", n)
	}
	return data, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// parseDataURL parses a data URL (RFC 2397).
// Examples:
//
//	data:application/json;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("res: invalid data URL")
	}
	meta, dataPart := parts[0], parts[1]

	mimeType := "text/plain"
	isBase64 := false
	if meta != "" {
		comps := strings.Split(meta, ";")
		if comps[0] != "" {
			mimeType = comps[0]
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("res: invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(dataPart); err == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	return &Resource{
		URL:      u,
		Name:     "data" + extensionFor(mimeType),
		Data:     data,
		MimeType: mimeType,
	}, nil
}

// resolveURL resolves a reference relative to the base URL
func (l *Loader) resolveURL(ref string) (string, error) {
	if isRemote(ref) || filepath.IsAbs(ref) || l.BaseURL == "" {
		return ref, nil
	}

	if !isRemote(l.BaseURL) {
		return filepath.Join(filepath.Dir(l.BaseURL), ref), nil
	}

	baseURL, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}
	relURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

func (l *Loader) loadRemote(ctx context.Context, u string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("res: HTTP error: %s", resp.Status)
	}

	data, err := l.readAll(resp.Body)
	if err != nil {
		return nil, err
	}

	mimeType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mt
	}
	name := ""
	if parsed, err := url.Parse(u); err == nil {
		name = path.Base(parsed.Path)
	}
	if filepath.Ext(name) == "" {
		name += extensionFor(mimeType)
	}
	return &Resource{URL: u, Name: name, Data: data, MimeType: mimeType}, nil
}

func (l *Loader) loadLocal(p string) (*Resource, error) {
	res, err := l.readFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return l.loadFromSearchPaths(p)
	}
	return res, err
}

func (l *Loader) readFile(p string) (*Resource, error) {
	file, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := l.readAll(file)
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:      p,
		Name:     filepath.Base(p),
		Data:     data,
		MimeType: determineMimeType(p),
	}, nil
}

func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	base := filepath.Base(filename)
	for _, dir := range l.searchPaths {
		res, err := l.readFile(filepath.Join(dir, base))
		if err == nil {
			return res, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
}

var mimeTypes = map[string]string{
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func determineMimeType(p string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(p))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// extensionFor maps a MIME type back to the extension the importers expect.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "application/json":
		return ".json"
	case "application/yaml", "application/x-yaml", "text/yaml":
		return ".yaml"
	case "text/plain":
		return ".txt"
	case "text/markdown":
		return ".md"
	case "text/html":
		return ".html"
	case "application/pdf":
		return ".pdf"
	case mimeTypes[".docx"]:
		return ".docx"
	}
	return ""
}
