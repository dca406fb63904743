// Package persistence writes the account directory and the active-session
// reference to a kv.Store and reads it back at startup.
//
// The snapshot lives under one key (common.SnapshotKey by default) as JSON,
// optionally sealed with AES-GCM. A small metadata record is written next to
// it in the same batch.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/cryptox"
	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/dmitrijs2005/rerange/internal/models"
	"github.com/dmitrijs2005/rerange/internal/repositories/kv"
	"github.com/dmitrijs2005/rerange/internal/timex"
)

const formatVersion = 1

// sealedMagic prefixes sealed snapshots so Load can tell them from JSON.
var sealedMagic = []byte("RRSEAL1:")

var ErrSealedSnapshot = errors.New("snapshot is sealed and no storage key is configured")

// Snapshot is the durable state: every account with its data, the
// activation ledger, and which account (if any) was signed in.
type Snapshot struct {
	Accounts      map[string]models.Entry `json:"users"`
	Ledger        map[string]string       `json:"usedCodes"`
	ActiveEmail   string                  `json:"currentUser,omitempty"`
	SessionTicket string                  `json:"sessionTicket,omitempty"`

	// SessionDropped is set by Load when a stored session failed ticket
	// verification and was cleared.
	SessionDropped bool `json:"-"`
}

// Meta describes the last successful save.
type Meta struct {
	Version  int       `json:"version"`
	SavedAt  time.Time `json:"savedAt"`
	Sealed   bool      `json:"sealed"`
	Accounts int       `json:"accounts"`
}

type Persister struct {
	store   kv.Store
	key     string
	sealKey []byte
	secret  []byte
	clock   timex.Clock
	logger  logging.Logger
}

type Option func(*Persister)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(p *Persister) {
		if key != "" {
			p.key = key
		}
	}
}

// WithSealKey enables AES-GCM sealing with a key derived from passphrase.
func WithSealKey(passphrase string) Option {
	return func(p *Persister) {
		if passphrase != "" {
			p.sealKey = []byte(passphrase)
		}
	}
}

func WithClock(c timex.Clock) Option {
	return func(p *Persister) { p.clock = c }
}

// New returns a Persister. secret signs session tickets.
func New(store kv.Store, secret []byte, logger logging.Logger, opts ...Option) *Persister {
	p := &Persister{
		store:  store,
		key:    common.SnapshotKey,
		secret: secret,
		clock:  timex.SystemClock{},
		logger: logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Persister) metaKey() string {
	return p.key + ":meta"
}

// Save writes snap. When an account is active a fresh ticket is issued that
// expires with its subscription.
func (p *Persister) Save(ctx context.Context, snap Snapshot) error {
	snap.SessionTicket = ""
	if snap.ActiveEmail != "" {
		entry, ok := snap.Accounts[snap.ActiveEmail]
		if !ok {
			return fmt.Errorf("active account %q missing from snapshot", snap.ActiveEmail)
		}
		ticket, err := IssueTicket(snap.ActiveEmail, entry.Data.SubscriptionExpiry, p.secret)
		if err != nil {
			return fmt.Errorf("failed to issue session ticket: %w", err)
		}
		snap.SessionTicket = ticket
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if p.sealKey != nil {
		sealed, err := cryptox.Seal(data, p.sealKey)
		if err != nil {
			return fmt.Errorf("failed to seal snapshot: %w", err)
		}
		data = append(append([]byte{}, sealedMagic...), sealed...)
	}

	meta, err := json.Marshal(Meta{
		Version:  formatVersion,
		SavedAt:  p.clock.Now().UTC(),
		Sealed:   p.sealKey != nil,
		Accounts: len(snap.Accounts),
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot meta: %w", err)
	}

	if err := p.store.SetMany(ctx, map[string][]byte{p.key: data, p.metaKey(): meta}); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	p.logger.Debug(ctx, "snapshot saved", "bytes", len(data), "accounts", len(snap.Accounts))
	return nil
}

// Load reads the snapshot. found is false when nothing was saved yet.
//
// An active-session reference survives only if its ticket verifies at the
// current time for the same email; otherwise it is dropped and the caller
// starts anonymous.
func (p *Persister) Load(ctx context.Context) (snap Snapshot, found bool, err error) {
	data, err := p.store.Get(ctx, p.key)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if data == nil {
		return Snapshot{}, false, nil
	}

	if sealed, ok := bytes.CutPrefix(data, sealedMagic); ok {
		if p.sealKey == nil {
			return Snapshot{}, false, ErrSealedSnapshot
		}
		data, err = cryptox.Open(sealed, p.sealKey)
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("failed to open snapshot: %w", err)
		}
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Accounts == nil {
		snap.Accounts = make(map[string]models.Entry)
	}
	if snap.Ledger == nil {
		snap.Ledger = make(map[string]string)
	}

	if snap.ActiveEmail != "" {
		email, err := TicketEmail(snap.SessionTicket, p.secret, p.clock.Now())
		if err != nil || email != snap.ActiveEmail {
			p.logger.Info(ctx, "dropping stored session", "email", snap.ActiveEmail, "reason", ticketReason(err))
			snap.ActiveEmail = ""
			snap.SessionTicket = ""
			snap.SessionDropped = true
		}
	}

	return snap, true, nil
}

// LoadMeta returns the metadata of the last save, if any.
func (p *Persister) LoadMeta(ctx context.Context) (*Meta, error) {
	data, err := p.store.Get(ctx, p.metaKey())
	if err != nil || data == nil {
		return nil, err
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot meta: %w", err)
	}
	return &m, nil
}

func ticketReason(err error) string {
	if err == nil {
		return "ticket subject mismatch"
	}
	return err.Error()
}
