package cli

import (
	"errors"
	"fmt"

	"github.com/tlbx-labs/tlbx/internal/branding"
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/config"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/logging"
	"github.com/tlbx-labs/tlbx/internal/resolver"
	"github.com/tlbx-labs/tlbx/internal/snapshot"
	"go.uber.org/zap"
)

// environment is an open catalog plus a host session. Source names where
// it came from for display.
type environment struct {
	cat    catalog.Catalog
	sess   host.Session
	lcid   uint32
	source string
}

// openEnvironment opens the configured snapshot, or the host registry and
// loader when no snapshot is configured.
func openEnvironment() (*environment, error) {
	lcid, err := config.LCID()
	if err != nil {
		return nil, err
	}

	cat, h, source, err := openSource()
	if err != nil {
		return nil, err
	}

	sess, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("starting host session: %w", err)
	}
	logging.Logger().Debug("environment opened", zap.String("source", source), zap.Uint32("lcid", lcid))
	return &environment{cat: cat, sess: sess, lcid: lcid, source: source}, nil
}

func openSource() (catalog.Catalog, host.Host, string, error) {
	if path := config.Snapshot(); path != "" {
		doc, err := snapshot.Load(path)
		if err != nil {
			return nil, nil, "", err
		}
		cat, h, err := doc.Open()
		if err != nil {
			return nil, nil, "", fmt.Errorf("building environment from %s: %w", path, err)
		}
		return cat, h, path, nil
	}

	cat, err := catalog.System()
	if err != nil {
		return nil, nil, "", hostUnavailable(err)
	}
	h, err := host.System()
	if err != nil {
		return nil, nil, "", hostUnavailable(err)
	}
	return cat, h, "host registry", nil
}

func hostUnavailable(err error) error {
	if errors.Is(err, catalog.ErrUnsupported) || errors.Is(err, host.ErrUnsupported) {
		return fmt.Errorf("%w; pass --snapshot, set %s or set the %q config key", err, branding.EnvVar(config.KeySnapshot), config.KeySnapshot)
	}
	return err
}

func (e *environment) resolver() *resolver.Resolver {
	return resolver.New(e.cat, e.sess)
}

// Close ends the host session.
func (e *environment) Close() {
	if err := e.sess.Close(); err != nil {
		logging.Logger().Debug("closing host session", zap.Error(err))
	}
}
