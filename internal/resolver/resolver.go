package resolver

import (
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/logging"
	"github.com/tlbx-labs/tlbx/internal/typelib"
	"github.com/tlbx-labs/tlbx/internal/vernum"
	"go.uber.org/zap"
)

// Version is an optional version preference. Both parts are catalog key
// text, e.g. Major "2" and Minor "a".
type Version struct {
	Major string
	Minor string
}

// Key returns the catalog version key, or false when no major is set.
func (v Version) Key() (string, bool) {
	return vernum.Key(v.Major, v.Minor)
}

// Resolver resolves identifiers against a catalog and loads the result
// through a host session. It is not safe for concurrent use; run
// independent resolutions with their own sessions instead.
type Resolver struct {
	cat  catalog.Catalog
	sess host.Session
	log  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to trace strategy fallthrough.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a resolver reading cat and loading through sess.
func New(cat catalog.Catalog, sess host.Session, opts ...Option) *Resolver {
	r := &Resolver{cat: cat, sess: sess, log: logging.Logger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type request struct {
	identifier string
	version    Version
}

type strategy struct {
	name    string
	resolve func(r *Resolver, req request) (*typelib.Library, error)
}

var strategies = []strategy{
	{name: "registered name", resolve: (*Resolver).byName},
	{name: "library guid", resolve: (*Resolver).byGUID},
	{name: "direct load", resolve: (*Resolver).direct},
}

// Resolve finds and loads the library named by identifier. The caller owns
// the returned library and must Close it.
func (r *Resolver) Resolve(identifier string, hint Version) (*typelib.Library, error) {
	req := request{identifier: identifier, version: hint}

	var err error
	for _, s := range strategies {
		var lib *typelib.Library
		lib, err = s.resolve(r, req)
		if err == nil {
			r.log.Debug("type library resolved",
				zap.String("identifier", identifier),
				zap.String("strategy", s.name))
			return lib, nil
		}
		r.log.Debug("resolution strategy fell through",
			zap.String("identifier", identifier),
			zap.String("strategy", s.name),
			zap.Error(err))
	}
	return nil, err
}
