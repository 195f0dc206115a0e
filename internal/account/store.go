package account

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rickgao/ctsp-server/internal/model"
)

var (
	// ErrInvalidCredentials is returned for a known username with a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnknownAccount is returned when the username does not exist.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrInsufficientFunds is returned when a buy would overdraw the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings is returned when a sell exceeds the held quantity.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// Outcome reports how an authentication attempt resolved.
type Outcome int

const (
	// LoggedIn means the username existed and the password matched.
	LoggedIn Outcome = iota
	// Created means the username was unknown and a fresh account was made.
	Created
)

// account holds one player's state. All fields are guarded by mu.
type account struct {
	mu       sync.Mutex
	password string
	balance  decimal.Decimal
	holdings map[string]decimal.Decimal
	history  []model.TradeRecord
}

// Store is the authoritative in-process account state.
type Store struct {
	logger          *slog.Logger
	startingBalance decimal.Decimal

	mu       sync.RWMutex
	accounts map[string]*account
	order    []string // registration order, leaderboard tie-break
}

// NewStore creates an empty store. startingBalance funds accounts created on
// first login.
func NewStore(startingBalance decimal.Decimal, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:          logger,
		startingBalance: startingBalance,
		accounts:        make(map[string]*account),
	}
}

// Seed pre-registers an account, used for configured starter accounts.
func (s *Store) Seed(username, password string, balance decimal.Decimal, holdings map[string]decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; ok {
		return fmt.Errorf("seed account %q: already exists", username)
	}

	h := make(map[string]decimal.Decimal, len(holdings))
	for coin, qty := range holdings {
		h[coin] = qty
	}
	s.accounts[username] = &account{
		password: password,
		balance:  balance,
		holdings: h,
	}
	s.order = append(s.order, username)
	return nil
}

// AuthenticateOrCreate logs the player in, creating the account with the
// starting balance when the username is unknown.
func (s *Store) AuthenticateOrCreate(username, password string) (Outcome, error) {
	s.mu.RLock()
	a, ok := s.accounts[username]
	s.mu.RUnlock()

	if ok {
		return s.checkPassword(a, password)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another connection may have created it meanwhile.
	if a, ok := s.accounts[username]; ok {
		return s.checkPassword(a, password)
	}

	s.accounts[username] = &account{
		password: password,
		balance:  s.startingBalance,
		holdings: make(map[string]decimal.Decimal),
	}
	s.order = append(s.order, username)

	s.logger.Info("account created", "username", username, "balance", s.startingBalance)
	return Created, nil
}

func (s *Store) checkPassword(a *account, password string) (Outcome, error) {
	a.mu.Lock()
	match := a.password == password
	a.mu.Unlock()
	if !match {
		return 0, ErrInvalidCredentials
	}
	return LoggedIn, nil
}

// Snapshot returns a consistent point-in-time copy of the account state.
func (s *Store) Snapshot(username string) (model.AccountSnapshot, error) {
	a, err := s.lookup(username)
	if err != nil {
		return model.AccountSnapshot{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	holdings := make(map[string]decimal.Decimal, len(a.holdings))
	for coin, qty := range a.holdings {
		holdings[coin] = qty
	}
	return model.AccountSnapshot{Balance: a.balance, Holdings: holdings}, nil
}

// ApplyBuy debits quantity*unitPrice and credits the holding, atomically.
// A failed check leaves the account untouched.
func (s *Store) ApplyBuy(username, coin string, quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	a, err := s.lookup(username)
	if err != nil {
		return decimal.Decimal{}, err
	}

	cost := quantity.Mul(unitPrice)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.balance.LessThan(cost) {
		return decimal.Decimal{}, ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(cost)
	a.holdings[coin] = a.holdings[coin].Add(quantity)
	return a.balance, nil
}

// ApplySell debits the holding and credits quantity*unitPrice, atomically.
// A failed check leaves the account untouched.
func (s *Store) ApplySell(username, coin string, quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	a, err := s.lookup(username)
	if err != nil {
		return decimal.Decimal{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	held := a.holdings[coin]
	if held.LessThan(quantity) {
		return decimal.Decimal{}, ErrInsufficientHoldings
	}
	a.holdings[coin] = held.Sub(quantity)
	a.balance = a.balance.Add(quantity.Mul(unitPrice))
	return a.balance, nil
}

// RecordTrade appends to the account's trade history.
func (s *Store) RecordTrade(username string, rec model.TradeRecord) error {
	a, err := s.lookup(username)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.history = append(a.history, rec)
	a.mu.Unlock()
	return nil
}

// History returns a copy of the account's trade records, oldest first.
func (s *Store) History(username string) ([]model.TradeRecord, error) {
	a, err := s.lookup(username)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.TradeRecord(nil), a.history...), nil
}

// Count returns the number of registered accounts.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (s *Store) lookup(username string) (*account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, username)
	}
	return a, nil
}
