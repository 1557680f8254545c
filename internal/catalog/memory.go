package catalog

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Memory is an in-memory catalog. Children enumerate in insertion order and
// names match case-insensitively, like the host registry.
type Memory struct {
	mu   sync.RWMutex
	root *node
	env  map[string]string
}

type node struct {
	name     string
	def      *string
	values   map[string]string
	children []*node
	index    map[string]*node
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{root: newNode(""), env: make(map[string]string)}
}

func newNode(name string) *node {
	return &node{name: name, values: make(map[string]string), index: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	return n.index[strings.ToLower(name)]
}

func (n *node) ensure(name string) *node {
	if c := n.child(name); c != nil {
		return c
	}
	c := newNode(name)
	n.children = append(n.children, c)
	n.index[strings.ToLower(name)] = c
	return c
}

// CreateKey creates path and any missing parents.
func (m *Memory) CreateKey(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.walkCreate(path)
}

// Set creates path if needed and sets its default value.
func (m *Memory) Set(path, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.walkCreate(path)
	v := value
	n.def = &v
}

// SetValue creates path if needed and sets a named value on it.
func (m *Memory) SetValue(path, name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.walkCreate(path)
	n.values[strings.ToLower(name)] = value
}

// SetEnv defines an environment variable used by ExpandEnv. Variables not set
// here fall back to the process environment.
func (m *Memory) SetEnv(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.env[strings.ToUpper(name)] = value
}

func (m *Memory) walkCreate(path string) *node {
	n := m.root
	for _, part := range splitPath(path) {
		n = n.ensure(part)
	}
	return n
}

// Open implements Catalog.
func (m *Memory) Open(path string) (Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.root
	for _, part := range splitPath(path) {
		n = n.child(part)
		if n == nil {
			return nil, fmt.Errorf("opening %s: %w", path, ErrNotExist)
		}
	}
	return &memKey{m: m, n: n}, nil
}

// ExpandEnv implements Catalog.
func (m *Memory) ExpandEnv(s string) string {
	return expandPercent(s, func(name string) (string, bool) {
		m.mu.RLock()
		v, ok := m.env[strings.ToUpper(name)]
		m.mu.RUnlock()
		if ok {
			return v, true
		}
		return os.LookupEnv(name)
	})
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, `\`) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

type memKey struct {
	m *Memory
	n *node
}

func (k *memKey) Name() string { return k.n.name }

func (k *memKey) SubKeys() ([]string, error) {
	k.m.mu.RLock()
	defer k.m.mu.RUnlock()
	names := make([]string, len(k.n.children))
	for i, c := range k.n.children {
		names[i] = c.name
	}
	return names, nil
}

func (k *memKey) OpenSubKey(name string) (Key, error) {
	k.m.mu.RLock()
	defer k.m.mu.RUnlock()
	c := k.n.child(name)
	if c == nil {
		return nil, fmt.Errorf("opening subkey %s of %s: %w", name, k.n.name, ErrNotExist)
	}
	return &memKey{m: k.m, n: c}, nil
}

func (k *memKey) DefaultValue() (string, error) {
	k.m.mu.RLock()
	defer k.m.mu.RUnlock()
	if k.n.def == nil {
		return "", fmt.Errorf("default value of %s: %w", k.n.name, ErrNotExist)
	}
	return *k.n.def, nil
}

func (k *memKey) Value(name string) (string, error) {
	if name == "" {
		return k.DefaultValue()
	}
	k.m.mu.RLock()
	defer k.m.mu.RUnlock()
	v, ok := k.n.values[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("value %s of %s: %w", name, k.n.name, ErrNotExist)
	}
	return v, nil
}

func (k *memKey) Close() error { return nil }
