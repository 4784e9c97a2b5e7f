//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/adapter"
	"creator-payment-ledger/internal/domain/ports/repository"
)

// -----------------------------
// Utilities
// -----------------------------

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// =============================
// Repositories
// =============================

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*model.Payment

	SaveFunc           func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	FindByIDFunc       func(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error)
	UpdateStatusIfFunc func(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, from []model.PaymentStatus, paidAt *time.Time) (bool, error)
	SetChargeFunc      func(ctx context.Context, tx repository.Tx, id, chargeID, qrPayload, qrImage string, expiresAt *time.Time) error
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{payments: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) FindByChargeID(ctx context.Context, tx repository.Tx, chargeID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ChargeID == chargeID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) SetCharge(ctx context.Context, tx repository.Tx, id, chargeID, qrPayload, qrImage string, expiresAt *time.Time) error {
	if m.SetChargeFunc != nil {
		return m.SetChargeFunc(ctx, tx, id, chargeID, qrPayload, qrImage, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ChargeID = chargeID
	p.QRPayload = qrPayload
	p.QRImage = qrImage
	p.ChargeExpiresAt = expiresAt
	return nil
}

func (m *MockPaymentRepo) UpdateStatusIf(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, from []model.PaymentStatus, paidAt *time.Time) (bool, error) {
	if m.UpdateStatusIfFunc != nil {
		return m.UpdateStatusIfFunc(ctx, tx, id, status, from, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, f := range from {
		if p.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	p.Status = status
	if paidAt != nil {
		p.PaidAt = paidAt
	}
	return true, nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.payments {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPaymentRepo) SumConfirmedByPayee(ctx context.Context, tx repository.Tx, payeeID, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, p := range m.payments {
		if p.Status == model.PaymentStatusConfirmed && p.PayeeID != nil && *p.PayeeID == payeeID {
			sum += p.PayeeShare
		}
	}
	return sum, nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*model.Subscription // key payer|creator, active only

	SaveIfNoneFunc       func(ctx context.Context, tx repository.Tx, s *model.Subscription) (bool, error)
	FindActiveByPairFunc func(ctx context.Context, tx repository.Tx, payerID, creatorID string) (*model.Subscription, error)
	ExtendActiveFunc     func(ctx context.Context, tx repository.Tx, payerID, creatorID string, by time.Duration) (bool, error)
	CancelActiveFunc     func(ctx context.Context, tx repository.Tx, payerID, creatorID string) (bool, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func pairKey(payerID, creatorID string) string { return payerID + "|" + creatorID }

func (m *MockSubscriptionRepo) SaveIfNone(ctx context.Context, tx repository.Tx, s *model.Subscription) (bool, error) {
	if m.SaveIfNoneFunc != nil {
		return m.SaveIfNoneFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(s.PayerID, s.CreatorID)
	if _, ok := m.subs[key]; ok {
		return false, nil
	}
	cp := *s
	m.subs[key] = &cp
	return true, nil
}

func (m *MockSubscriptionRepo) FindActiveByPair(ctx context.Context, tx repository.Tx, payerID, creatorID string) (*model.Subscription, error) {
	if m.FindActiveByPairFunc != nil {
		return m.FindActiveByPairFunc(ctx, tx, payerID, creatorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[pairKey(payerID, creatorID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) ExtendActive(ctx context.Context, tx repository.Tx, payerID, creatorID string, by time.Duration) (bool, error) {
	if m.ExtendActiveFunc != nil {
		return m.ExtendActiveFunc(ctx, tx, payerID, creatorID, by)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[pairKey(payerID, creatorID)]
	if !ok {
		return false, nil
	}
	s.ExpiresAt = s.ExpiresAt.Add(by)
	return true, nil
}

func (m *MockSubscriptionRepo) CancelActive(ctx context.Context, tx repository.Tx, payerID, creatorID string) (bool, error) {
	if m.CancelActiveFunc != nil {
		return m.CancelActiveFunc(ctx, tx, payerID, creatorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(payerID, creatorID)
	if _, ok := m.subs[key]; !ok {
		return false, nil
	}
	delete(m.subs, key)
	return true, nil
}

func (m *MockSubscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time, limit int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, s := range m.subs {
		if !s.ExpiresAt.After(now) {
			delete(m.subs, key)
			n++
		}
	}
	return n, nil
}

// ---- Mock PurchaseRepository ----

type MockPurchaseRepo struct {
	mu        sync.Mutex
	contents  map[string]string // payer|content|idx -> payment id
	packs     map[string]string // payer|pack -> payment id
	paidMsgs  map[string]bool
	PackSales map[string]int

	SaveContentPurchaseIfNoneFunc func(ctx context.Context, tx repository.Tx, p *model.ContentPurchase) (bool, error)
	HasContentPurchaseFunc        func(ctx context.Context, tx repository.Tx, payerID, contentID string, mediaIndex *int) (bool, error)
	HasPackPurchaseFunc           func(ctx context.Context, tx repository.Tx, payerID, packID string) (bool, error)
	MarkMessagePaidFunc           func(ctx context.Context, tx repository.Tx, messageID string) (bool, error)
}

var _ repository.PurchaseRepository = (*MockPurchaseRepo)(nil)

func NewMockPurchaseRepo() *MockPurchaseRepo {
	return &MockPurchaseRepo{
		contents:  make(map[string]string),
		packs:     make(map[string]string),
		paidMsgs:  make(map[string]bool),
		PackSales: make(map[string]int),
	}
}

func contentKey(payerID, contentID string, idx *int) string {
	i := -1
	if idx != nil {
		i = *idx
	}
	return fmt.Sprintf("%s|%s|%d", payerID, contentID, i)
}

func (m *MockPurchaseRepo) SaveContentPurchaseIfNone(ctx context.Context, tx repository.Tx, p *model.ContentPurchase) (bool, error) {
	if m.SaveContentPurchaseIfNoneFunc != nil {
		return m.SaveContentPurchaseIfNoneFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := contentKey(p.PayerID, p.ContentID, p.MediaIndex)
	if _, ok := m.contents[key]; ok {
		return false, nil
	}
	m.contents[key] = p.PaymentID
	return true, nil
}

func (m *MockPurchaseRepo) HasContentPurchase(ctx context.Context, tx repository.Tx, payerID, contentID string, mediaIndex *int) (bool, error) {
	if m.HasContentPurchaseFunc != nil {
		return m.HasContentPurchaseFunc(ctx, tx, payerID, contentID, mediaIndex)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contents[contentKey(payerID, contentID, nil)]; ok {
		return true, nil // whole-content purchase covers any item
	}
	_, ok := m.contents[contentKey(payerID, contentID, mediaIndex)]
	return ok, nil
}

func (m *MockPurchaseRepo) SavePackPurchaseIfNone(ctx context.Context, tx repository.Tx, p *model.PackPurchase) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(p.PayerID, p.PackID)
	if _, ok := m.packs[key]; ok {
		return false, nil
	}
	m.packs[key] = p.PaymentID
	m.PackSales[p.PackID]++
	return true, nil
}

func (m *MockPurchaseRepo) HasPackPurchase(ctx context.Context, tx repository.Tx, payerID, packID string) (bool, error) {
	if m.HasPackPurchaseFunc != nil {
		return m.HasPackPurchaseFunc(ctx, tx, payerID, packID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.packs[pairKey(payerID, packID)]
	return ok, nil
}

func (m *MockPurchaseRepo) MarkMessagePaid(ctx context.Context, tx repository.Tx, messageID string) (bool, error) {
	if m.MarkMessagePaidFunc != nil {
		return m.MarkMessagePaidFunc(ctx, tx, messageID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paidMsgs[messageID] {
		return false, nil
	}
	m.paidMsgs[messageID] = true
	return true, nil
}

// ---- Mock BalanceRepository ----

type MockBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]*model.Balance

	CreditFunc func(ctx context.Context, tx repository.Tx, creatorID string, amount int64) error
	DebitFunc  func(ctx context.Context, tx repository.Tx, creatorID string, amount int64) error
}

var _ repository.BalanceRepository = (*MockBalanceRepo)(nil)

func NewMockBalanceRepo() *MockBalanceRepo {
	return &MockBalanceRepo{balances: make(map[string]*model.Balance)}
}

func (m *MockBalanceRepo) Credit(ctx context.Context, tx repository.Tx, creatorID string, amount int64) error {
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, tx, creatorID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[creatorID]
	if !ok {
		b = &model.Balance{CreatorID: creatorID}
		m.balances[creatorID] = b
	}
	b.Available += amount
	b.TotalEarnings += amount
	return nil
}

func (m *MockBalanceRepo) Debit(ctx context.Context, tx repository.Tx, creatorID string, amount int64) error {
	if m.DebitFunc != nil {
		return m.DebitFunc(ctx, tx, creatorID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[creatorID]
	if !ok {
		return nil
	}
	b.Available -= amount
	if b.Available < 0 {
		b.Available = 0
	}
	b.TotalEarnings -= amount
	if b.TotalEarnings < 0 {
		b.TotalEarnings = 0
	}
	return nil
}

func (m *MockBalanceRepo) Find(ctx context.Context, tx repository.Tx, creatorID string) (*model.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[creatorID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// ---- Mock UserRepository / CreatorRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{users: make(map[string]*model.User)}
}

func (m *MockUserRepo) Seed(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) LinkCustomer(ctx context.Context, tx repository.Tx, userID, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.CustomerID = customerID
	return nil
}

func (m *MockUserRepo) SetTaxID(ctx context.Context, tx repository.Tx, userID, taxID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.TaxID = taxID
	return nil
}

type MockCreatorRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.CreatorProfile

	FindProfileFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.CreatorProfile, error)
	SetProFunc      func(ctx context.Context, tx repository.Tx, userID string, until time.Time) error
}

var _ repository.CreatorRepository = (*MockCreatorRepo)(nil)

func NewMockCreatorRepo() *MockCreatorRepo {
	return &MockCreatorRepo{profiles: make(map[string]*model.CreatorProfile)}
}

func (m *MockCreatorRepo) Seed(p *model.CreatorProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.UserID] = &cp
}

func (m *MockCreatorRepo) FindProfile(ctx context.Context, tx repository.Tx, userID string) (*model.CreatorProfile, error) {
	if m.FindProfileFunc != nil {
		return m.FindProfileFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockCreatorRepo) SetPro(ctx context.Context, tx repository.Tx, userID string, until time.Time) error {
	if m.SetProFunc != nil {
		return m.SetProFunc(ctx, tx, userID, until)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		p = &model.CreatorProfile{UserID: userID}
		m.profiles[userID] = p
	}
	p.Pro = true
	p.ProUntil = &until
	return nil
}

func (m *MockCreatorRepo) ClearLapsedPro(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.profiles {
		if p.Pro && p.ProUntil != nil && !p.ProUntil.After(now) {
			p.Pro = false
			n++
		}
	}
	return n, nil
}

// ---- Mock ContentRepository ----

type MockContentRepo struct {
	mu       sync.Mutex
	contents map[string]*model.Content
	packs    map[string]*model.Pack
	messages map[string]*model.Message
}

var _ repository.ContentRepository = (*MockContentRepo)(nil)

func NewMockContentRepo() *MockContentRepo {
	return &MockContentRepo{
		contents: make(map[string]*model.Content),
		packs:    make(map[string]*model.Pack),
		messages: make(map[string]*model.Message),
	}
}

func (m *MockContentRepo) SeedContent(c *model.Content) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.contents[c.ID] = &cp
}

func (m *MockContentRepo) SeedPack(p *model.Pack) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.packs[p.ID] = &cp
}

func (m *MockContentRepo) SeedMessage(msg *model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *msg
	m.messages[msg.ID] = &cp
}

func (m *MockContentRepo) FindContent(ctx context.Context, tx repository.Tx, id string) (*model.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockContentRepo) FindPack(ctx context.Context, tx repository.Tx, id string) (*model.Pack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockContentRepo) FindMessage(ctx context.Context, tx repository.Tx, id string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu sync.Mutex

	CreateCustomerFunc      func(ctx context.Context, name, email, taxID string) (string, error)
	FindCustomerByEmailFunc func(ctx context.Context, email string) (*adapter.Customer, error)
	CreateChargeFunc        func(ctx context.Context, customerID string, value int64, description, externalReference string) (*adapter.Charge, error)
	GetChargeFunc           func(ctx context.Context, chargeID string) (adapter.ChargeStatus, error)
	RefundFunc              func(ctx context.Context, chargeID string) error

	Calls struct {
		CreateCustomer int
		CreateCharge   []string // external references
		Refund         []string
	}
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, name, email, taxID string) (string, error) {
	m.mu.Lock()
	m.Calls.CreateCustomer++
	m.mu.Unlock()
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, name, email, taxID)
	}
	return "cus_mock", nil
}

func (m *MockPaymentGateway) FindCustomerByEmail(ctx context.Context, email string) (*adapter.Customer, error) {
	if m.FindCustomerByEmailFunc != nil {
		return m.FindCustomerByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockPaymentGateway) UpdateCustomer(ctx context.Context, id string, fields map[string]string) error {
	return nil
}

func (m *MockPaymentGateway) CreateCharge(ctx context.Context, customerID string, value int64, description, externalReference string) (*adapter.Charge, error) {
	m.mu.Lock()
	m.Calls.CreateCharge = append(m.Calls.CreateCharge, externalReference)
	m.mu.Unlock()
	if m.CreateChargeFunc != nil {
		return m.CreateChargeFunc(ctx, customerID, value, description, externalReference)
	}
	exp := time.Now().Add(24 * time.Hour)
	return &adapter.Charge{
		ID:        "pay_" + externalReference,
		QRPayload: "pix-payload",
		QRImage:   "base64-image",
		ExpiresAt: &exp,
	}, nil
}

func (m *MockPaymentGateway) GetCharge(ctx context.Context, chargeID string) (adapter.ChargeStatus, error) {
	if m.GetChargeFunc != nil {
		return m.GetChargeFunc(ctx, chargeID)
	}
	return adapter.ChargeStatusPending, nil
}

func (m *MockPaymentGateway) Refund(ctx context.Context, chargeID string) error {
	m.mu.Lock()
	m.Calls.Refund = append(m.Calls.Refund, chargeID)
	m.mu.Unlock()
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, chargeID)
	}
	return nil
}

// ---- Mock notification adapters ----

type MockMailer struct {
	mu   sync.Mutex
	Sent []string // recipients

	SendPaymentConfirmedFunc func(ctx context.Context, to, template string, data map[string]string) error
}

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) SendPaymentConfirmed(ctx context.Context, to, template string, data map[string]string) error {
	if m.SendPaymentConfirmedFunc != nil {
		return m.SendPaymentConfirmedFunc(ctx, to, template, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, to)
	return nil
}

type MockTipBroadcaster struct {
	mu     sync.Mutex
	Events []adapter.TipEvent
}

var _ adapter.TipBroadcaster = (*MockTipBroadcaster)(nil)

func (m *MockTipBroadcaster) BroadcastTip(ctx context.Context, ev adapter.TipEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return nil
}

type MockInvalidator struct {
	mu       sync.Mutex
	Earnings []string
	Feeds    []string
}

var _ adapter.CacheInvalidator = (*MockInvalidator)(nil)

func (m *MockInvalidator) InvalidateEarnings(ctx context.Context, creatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Earnings = append(m.Earnings, creatorID)
	return nil
}

func (m *MockInvalidator) InvalidateFeed(ctx context.Context, payerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Feeds = append(m.Feeds, payerID)
	return nil
}

// ---- Mock ObjectURLSigner ----

type MockSigner struct {
	SignedURLFunc func(ctx context.Context, storageKey string, ttl time.Duration) (string, error)
}

var _ adapter.ObjectURLSigner = (*MockSigner)(nil)

func (m *MockSigner) SignedURL(ctx context.Context, storageKey string, ttl time.Duration) (string, error) {
	if m.SignedURLFunc != nil {
		return m.SignedURLFunc(ctx, storageKey, ttl)
	}
	return "https://cdn.test/" + storageKey + "?signed", nil
}

// ---- Mock TransactionManager ----

type noTx struct{}

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs fn with a fake handle. Tests that need to assert rollback
// behavior assign WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, noTx{})
}
