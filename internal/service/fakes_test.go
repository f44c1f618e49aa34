package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contestify/contest-api/internal/config"
	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/lock"
	"github.com/contestify/contest-api/internal/repository"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	adminEmail   = "admin@example.com"
	creatorEmail = "creator@example.com"
	userEmail    = "user@example.com"
	otherEmail   = "other@example.com"
)

// memDB is an in-memory store shared by the fake repositories. failNext
// injects a one-shot error into the named operation.
type memDB struct {
	mu          sync.Mutex
	seq         uint
	users       map[string]domain.User
	contests    map[uint]domain.Contest
	submissions map[uint]domain.Submission
	payments    map[string]domain.Payment
	failNext    map[string]error
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[string]domain.User{},
		contests:    map[uint]domain.Contest{},
		submissions: map[uint]domain.Submission{},
		payments:    map[string]domain.Payment{},
		failNext:    map[string]error{},
	}
}

func (db *memDB) nextID() uint {
	db.seq++
	return db.seq
}

func (db *memDB) fault(op string) error {
	if err, ok := db.failNext[op]; ok {
		delete(db.failNext, op)
		return err
	}
	return nil
}

func (db *memDB) inject(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failNext[op] = err
}

func (db *memDB) contest(id uint) domain.Contest {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := db.contests[id]
	c.Participants = append([]string(nil), c.Participants...)
	return c
}

func (db *memDB) paymentCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.payments)
}

func (db *memDB) winners(contestID uint) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, s := range db.submissions {
		if s.ContestID == contestID && s.IsWinner {
			n++
		}
	}
	return n
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.Email]; ok {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", repository.ErrUserEmailExists)
	}
	user.ID = r.db.nextID()
	user.CreatedAt = testNow
	r.db.users[user.Email] = user
	return user, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fault("users.FindByEmail"); err != nil {
		return domain.User{}, err
	}
	u, ok := r.db.users[strings.ToLower(email)]
	if !ok {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", repository.ErrUserNotFound)
	}
	return u, nil
}

func (r memUsers) UpdateProfile(_ context.Context, email, name, photo string) (domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	u.Name, u.Photo = name, photo
	r.db.users[email] = u
	return u, nil
}

func (r memUsers) UpdateRole(_ context.Context, email string, role domain.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[email]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	r.db.users[email] = u
	return nil
}

func (r memUsers) List(_ context.Context, offset, limit int) ([]domain.User, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := make([]domain.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, offset, limit), int64(len(all)), nil
}

type memContests struct{ db *memDB }

func (r memContests) Create(_ context.Context, contest domain.Contest) (domain.Contest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.contests {
		if c.Name == contest.Name && c.CreatorEmail == contest.CreatorEmail {
			return domain.Contest{}, fmt.Errorf("r.dao.Insert -> %w", repository.ErrContestExists)
		}
	}
	contest.ID = r.db.nextID()
	r.db.contests[contest.ID] = contest
	return contest, nil
}

func (r memContests) FindByID(_ context.Context, id uint) (domain.Contest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.contests[id]
	if !ok {
		return domain.Contest{}, fmt.Errorf("r.dao.FindByID -> %w", repository.ErrContestNotFound)
	}
	c.Participants = append([]string(nil), c.Participants...)
	c.ParticipantCount = len(c.Participants)
	return c, nil
}

func (r memContests) List(_ context.Context, q domain.ContestQuery) ([]domain.Contest, int64, error) {
	return r.filter(func(c domain.Contest) bool {
		return (q.Status == "" || c.Status == q.Status) &&
			(q.Category == "" || c.Category == q.Category) &&
			(q.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(q.Search)))
	}, q.Offset, q.Limit)
}

func (r memContests) FindByCreator(_ context.Context, email string) ([]domain.Contest, error) {
	found, _, err := r.filter(func(c domain.Contest) bool { return c.CreatorEmail == email }, 0, 0)
	return found, err
}

func (r memContests) FindByParticipant(_ context.Context, email string) ([]domain.Contest, error) {
	found, _, err := r.filter(func(c domain.Contest) bool { return c.IsParticipant(email) }, 0, 0)
	return found, err
}

func (r memContests) FindByWinner(_ context.Context, email string) ([]domain.Contest, error) {
	found, _, err := r.filter(func(c domain.Contest) bool { return c.Winner != nil && c.Winner.Email == email }, 0, 0)
	return found, err
}

func (r memContests) filter(match func(domain.Contest) bool, offset, limit int) ([]domain.Contest, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var found []domain.Contest
	for _, c := range r.db.contests {
		if match(c) {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return window(found, offset, limit), int64(len(found)), nil
}

func (r memContests) UpdateIfStatus(_ context.Context, id uint, status domain.ContestStatus, patch domain.ContestPatch, slug string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.contests[id]
	if !ok || c.Status != status {
		return false, nil
	}
	if patch.Name != nil {
		for _, other := range r.db.contests {
			if other.ID != id && other.Name == *patch.Name && other.CreatorEmail == c.CreatorEmail {
				return false, repository.ErrContestExists
			}
		}
		c.Slug = slug
	}
	patch.Apply(&c)
	r.db.contests[id] = c
	return true, nil
}

func (r memContests) SetStatus(_ context.Context, id uint, from, to domain.ContestStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.contests[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	r.db.contests[id] = c
	return true, nil
}

func (r memContests) CompleteWithWinner(_ context.Context, id uint, winner domain.Winner) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fault("contests.CompleteWithWinner"); err != nil {
		return false, err
	}
	c, ok := r.db.contests[id]
	if !ok || c.Status != domain.StatusApproved {
		return false, nil
	}
	c.Status = domain.StatusCompleted
	c.Winner = &winner
	r.db.contests[id] = c
	return true, nil
}

func (r memContests) AddParticipant(_ context.Context, contestID uint, email string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fault("contests.AddParticipant"); err != nil {
		return err
	}
	c, ok := r.db.contests[contestID]
	if !ok {
		return repository.ErrContestNotFound
	}
	if !c.IsParticipant(email) {
		c.Participants = append(c.Participants, email)
	}
	r.db.contests[contestID] = c
	return nil
}

func (r memContests) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.contests[id]; !ok {
		return repository.ErrContestNotFound
	}
	delete(r.db.contests, id)
	return nil
}

func (r memContests) DeleteIfStatus(_ context.Context, id uint, status domain.ContestStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.contests[id]
	if !ok || c.Status != status {
		return false, nil
	}
	delete(r.db.contests, id)
	return true, nil
}

type memSubmissions struct{ db *memDB }

func (r memSubmissions) Create(_ context.Context, submission domain.Submission) (domain.Submission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.submissions {
		if s.ContestID == submission.ContestID && s.ParticipantEmail == submission.ParticipantEmail {
			return domain.Submission{}, fmt.Errorf("r.dao.Insert -> %w", repository.ErrSubmissionExists)
		}
	}
	submission.ID = r.db.nextID()
	r.db.submissions[submission.ID] = submission
	return submission, nil
}

func (r memSubmissions) FindByID(_ context.Context, id uint) (domain.Submission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.submissions[id]
	if !ok {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", repository.ErrSubmissionNotFound)
	}
	return s, nil
}

func (r memSubmissions) FindByContestIDs(_ context.Context, contestIDs []uint) ([]domain.Submission, error) {
	ids := map[uint]bool{}
	for _, id := range contestIDs {
		ids[id] = true
	}
	return r.filter(func(s domain.Submission) bool { return ids[s.ContestID] }), nil
}

func (r memSubmissions) FindByParticipant(_ context.Context, email string) ([]domain.Submission, error) {
	return r.filter(func(s domain.Submission) bool { return s.ParticipantEmail == email }), nil
}

func (r memSubmissions) filter(match func(domain.Submission) bool) []domain.Submission {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := []domain.Submission{}
	for _, s := range r.db.submissions {
		if match(s) {
			found = append(found, s)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found
}

func (r memSubmissions) HasWinner(_ context.Context, contestID uint) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.submissions {
		if s.ContestID == contestID && s.IsWinner {
			return true, nil
		}
	}
	return false, nil
}

func (r memSubmissions) MarkWinner(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fault("submissions.MarkWinner"); err != nil {
		return err
	}
	sub, ok := r.db.submissions[id]
	if !ok {
		return repository.ErrSubmissionNotFound
	}
	for _, s := range r.db.submissions {
		if s.ContestID == sub.ContestID && s.IsWinner && s.ID != id {
			return repository.ErrWinnerExists
		}
	}
	sub.IsWinner = true
	r.db.submissions[id] = sub
	return nil
}

func (r memSubmissions) DeleteByContest(_ context.Context, contestID uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, s := range r.db.submissions {
		if s.ContestID == contestID {
			delete(r.db.submissions, id)
		}
	}
	return nil
}

type memPayments struct{ db *memDB }

func (r memPayments) Create(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fault("payments.Create"); err != nil {
		return domain.Payment{}, err
	}
	if _, ok := r.db.payments[payment.TransactionID]; ok {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", repository.ErrPaymentExists)
	}
	payment.ID = r.db.nextID()
	r.db.payments[payment.TransactionID] = payment
	return payment, nil
}

func (r memPayments) FindByTransactionID(_ context.Context, transactionID string) (domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[transactionID]
	if !ok {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByTransactionID -> %w", repository.ErrPaymentNotFound)
	}
	return p, nil
}

func (r memPayments) FindByEmail(_ context.Context, email string) ([]domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := []domain.Payment{}
	for _, p := range r.db.payments {
		if p.Email == email {
			found = append(found, p)
		}
	}
	return found, nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// fakeProvider hands out sessions and lets tests mark them paid.
type fakeProvider struct {
	mu       sync.Mutex
	requests []domain.CheckoutRequest
	sessions map[string]domain.CheckoutSession
	err      error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]domain.CheckoutSession{}}
}

func (p *fakeProvider) CreateSession(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return domain.CheckoutSession{}, p.err
	}
	p.requests = append(p.requests, req)
	id := fmt.Sprintf("cs_test_%d", len(p.requests))
	session := domain.CheckoutSession{
		ID:            id,
		URL:           "https://checkout.example.com/" + id,
		PaymentStatus: "unpaid",
		Metadata:      req.Metadata,
		AmountTotal:   req.Amount,
		Currency:      req.Currency,
	}
	p.sessions[id] = session
	return session, nil
}

func (p *fakeProvider) RetrieveSession(_ context.Context, id string) (domain.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[id]
	if !ok {
		return domain.CheckoutSession{}, fmt.Errorf("no such checkout session: %s", id)
	}
	return session, nil
}

func (p *fakeProvider) pay(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session := p.sessions[id]
	session.PaymentStatus = domain.PaymentStatusPaid
	session.PaymentIntentID = "pi_" + id
	p.sessions[id] = session
}

func (p *fakeProvider) lastSessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("cs_test_%d", len(p.requests))
}

type fixture struct {
	db           *memDB
	provider     *fakeProvider
	locker       *lock.LocalLocker
	auth         *AuthService
	users        *UserService
	contests     *ContestService
	registration *RegistrationService
	submissions  *SubmissionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newMemDB()
	for _, u := range []domain.User{
		{Email: adminEmail, Name: "Ada", Role: domain.RoleAdmin},
		{Email: creatorEmail, Name: "Cleo", Role: domain.RoleCreator},
		{Email: userEmail, Name: "Una", Photo: "https://img.example.com/una.png", Role: domain.RoleUser},
		{Email: otherEmail, Name: "Otto", Role: domain.RoleUser},
	} {
		u.ID = db.nextID()
		db.users[u.Email] = u
	}

	users := memUsers{db: db}
	contests := memContests{db: db}
	submissions := memSubmissions{db: db}
	payments := memPayments{db: db}
	provider := newFakeProvider()
	locker := lock.NewLocalLocker()
	policy := NewAdminPolicy(users)
	clock := func() time.Time { return testNow }

	f := &fixture{
		db:           db,
		provider:     provider,
		locker:       locker,
		auth:         NewAuthService(users),
		users:        NewUserService(users, policy, 2),
		contests:     NewContestService(contests, submissions, policy, 2),
		registration: NewRegistrationService(contests, payments, provider, locker, &config.StripeConfig{Currency: "usd", SuccessURL: "http://app/success", CancelURL: "http://app/cancel"}),
		submissions:  NewSubmissionService(submissions, contests, users),
	}
	f.contests.now = clock
	f.registration.now = clock
	f.submissions.now = clock

	return f
}

// seedContest stores a contest directly, bypassing the lifecycle rules.
func (f *fixture) seedContest(name string, status domain.ContestStatus, participants ...string) domain.Contest {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c := domain.Contest{
		ID:           f.db.nextID(),
		Name:         name,
		CreatorEmail: creatorEmail,
		EntryFee:     decimal.NewFromInt(100),
		Deadline:     testNow.Add(72 * time.Hour),
		Status:       status,
		Participants: participants,
		CreatedAt:    testNow,
	}
	f.db.contests[c.ID] = c
	return c
}

func (f *fixture) seedSubmission(contestID uint, email string) domain.Submission {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s := domain.Submission{
		ID:               f.db.nextID(),
		ContestID:        contestID,
		ParticipantEmail: email,
		Content:          "https://work.example.com/" + email,
		SubmittedAt:      testNow,
	}
	f.db.submissions[s.ID] = s
	return s
}
