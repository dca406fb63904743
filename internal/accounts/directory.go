// Package accounts keeps the account directory: every registered account
// with its data partition, plus the ledger of consumed activation codes.
//
// A Directory is not safe for concurrent use; the session manager owns it
// and serializes access.
package accounts

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/cryptox"
	"github.com/dmitrijs2005/rerange/internal/models"
	"github.com/dmitrijs2005/rerange/internal/timex"
	"github.com/google/uuid"
)

// DefaultSubscriptionPeriod is how long signup and reactivation extend an
// account for.
const DefaultSubscriptionPeriod = 30 * 24 * time.Hour

// DefaultCodes are the activation codes accepted when none are configured.
var DefaultCodes = []string{"YL10"}

type Directory struct {
	entries  map[string]*models.Entry
	ledger   map[string]string
	accepted map[string]struct{}

	hasher cryptox.PasswordHasher
	clock  timex.Clock
	period time.Duration
	newID  func() string
}

type Option func(*Directory)

func WithClock(c timex.Clock) Option {
	return func(d *Directory) { d.clock = c }
}

func WithHasher(h cryptox.PasswordHasher) Option {
	return func(d *Directory) { d.hasher = h }
}

// WithCodes sets the accepted activation codes. An empty list keeps
// DefaultCodes.
func WithCodes(codes []string) Option {
	return func(d *Directory) {
		if len(codes) == 0 {
			return
		}
		d.accepted = make(map[string]struct{}, len(codes))
		for _, c := range codes {
			d.accepted[c] = struct{}{}
		}
	}
}

func WithSubscriptionPeriod(p time.Duration) Option {
	return func(d *Directory) {
		if p > 0 {
			d.period = p
		}
	}
}

// WithIDFunc overrides the id generator for starter lists.
func WithIDFunc(f func() string) Option {
	return func(d *Directory) { d.newID = f }
}

func New(opts ...Option) *Directory {
	d := &Directory{
		entries: make(map[string]*models.Entry),
		ledger:  make(map[string]string),
		hasher:  cryptox.NewArgon2(),
		clock:   timex.SystemClock{},
		period:  DefaultSubscriptionPeriod,
		newID:   uuid.NewString,
	}
	WithCodes(DefaultCodes)(d)
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Directory) checkCode(code string) error {
	if _, ok := d.accepted[code]; !ok {
		return common.ErrInvalidCode
	}
	if _, used := d.ledger[code]; used {
		return common.ErrCodeAlreadyUsed
	}
	return nil
}

// Signup registers a new account and returns a copy of its entry.
//
// Checks run in this order: profile/password validation, unknown code,
// consumed code, taken email. Nothing is written unless all pass.
func (d *Directory) Signup(profile models.Profile, password, code string) (models.Entry, error) {
	profile.Email = models.NormalizeEmail(profile.Email)
	if err := models.Validate(profile); err != nil {
		return models.Entry{}, err
	}
	if password == "" {
		return models.Entry{}, fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	// Step 1: activation code must be known and unused
	if err := d.checkCode(code); err != nil {
		return models.Entry{}, err
	}

	// Step 2: email must be free
	if _, exists := d.entries[profile.Email]; exists {
		return models.Entry{}, common.ErrEmailTaken
	}

	// Step 3: hash the password
	hash, err := d.hasher.Hash(password)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 4: create the entry and consume the code
	entry := &models.Entry{
		Account: models.Account{
			Email:          profile.Email,
			Name:           profile.Name,
			PasswordHash:   hash,
			ProfilePicture: profile.ProfilePicture,
		},
		Data: models.NewPartition(d.newID(), code, d.clock.Now().Add(d.period)),
	}
	d.entries[profile.Email] = entry
	d.ledger[code] = profile.Email

	return entry.Clone(), nil
}

// verify finds the account and checks its password.
func (d *Directory) verify(email, password string) (*models.Entry, error) {
	entry, ok := d.entries[models.NormalizeEmail(email)]
	if !ok {
		return nil, common.ErrNotFound
	}

	valid, err := d.hasher.Verify(password, entry.Account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, common.ErrInvalidPassword
	}
	return entry, nil
}

// Authenticate checks credentials and subscription and returns a copy of
// the entry. It never mutates the directory.
func (d *Directory) Authenticate(email, password string) (models.Entry, error) {
	entry, err := d.verify(email, password)
	if err != nil {
		return models.Entry{}, err
	}
	if entry.Data.Expired(d.clock.Now()) {
		return models.Entry{}, common.ErrSubscriptionExpired
	}
	return entry.Clone(), nil
}

// Reactivate consumes a fresh activation code to extend an account's
// subscription from now. The account password is required.
func (d *Directory) Reactivate(email, password, code string) (models.Entry, error) {
	if err := d.checkCode(code); err != nil {
		return models.Entry{}, err
	}

	entry, err := d.verify(email, password)
	if err != nil {
		return models.Entry{}, err
	}

	entry.Data.SubscriptionExpiry = d.clock.Now().Add(d.period)
	entry.Data.UsedActivationCode = code
	d.ledger[code] = entry.Account.Email

	return entry.Clone(), nil
}

// UpdateProfile merges patch into the account and returns the result.
func (d *Directory) UpdateProfile(email string, patch models.ProfilePatch) (models.Account, error) {
	entry, ok := d.entries[models.NormalizeEmail(email)]
	if !ok {
		return models.Account{}, common.ErrNotFound
	}
	if err := models.Validate(patch); err != nil {
		return models.Account{}, err
	}

	if patch.Name != nil {
		entry.Account.Name = *patch.Name
	}
	if patch.ProfilePicture != nil {
		entry.Account.ProfilePicture = *patch.ProfilePicture
	}
	return entry.Account, nil
}

// StorePartition replaces the data of an existing account with a copy of p.
func (d *Directory) StorePartition(email string, p models.Partition) error {
	entry, ok := d.entries[models.NormalizeEmail(email)]
	if !ok {
		return common.ErrNotFound
	}
	entry.Data = p.Clone()
	return nil
}

// Get returns a copy of the entry for email.
func (d *Directory) Get(email string) (models.Entry, bool) {
	entry, ok := d.entries[models.NormalizeEmail(email)]
	if !ok {
		return models.Entry{}, false
	}
	return entry.Clone(), true
}

// Emails lists registered accounts in sorted order.
func (d *Directory) Emails() []string {
	return slices.Sorted(maps.Keys(d.entries))
}

// Entries returns a deep copy of all entries keyed by email.
func (d *Directory) Entries() map[string]models.Entry {
	out := make(map[string]models.Entry, len(d.entries))
	for k, e := range d.entries {
		out[k] = e.Clone()
	}
	return out
}

// Ledger returns a copy of the code → email ledger.
func (d *Directory) Ledger() map[string]string {
	return maps.Clone(d.ledger)
}

// Load replaces the directory contents, typically from a snapshot.
func (d *Directory) Load(entries map[string]models.Entry, ledger map[string]string) {
	d.entries = make(map[string]*models.Entry, len(entries))
	for k, e := range entries {
		c := e.Clone()
		d.entries[models.NormalizeEmail(k)] = &c
	}
	d.ledger = maps.Clone(ledger)
	if d.ledger == nil {
		d.ledger = make(map[string]string)
	}
}

func (d *Directory) Now() time.Time {
	return d.clock.Now()
}
