package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/innofeed-labs/innofeed-engine/pkg/apperrors"
	"github.com/innofeed-labs/innofeed-engine/pkg/database"
	"github.com/innofeed-labs/innofeed-engine/pkg/models"
)

// fakeTx satisfies pgx.Tx through the embedded interface; only the
// lifecycle methods the ingest service touches are implemented.
type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
	commitErr error
}

func (t *fakeTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.commits++
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rollbacks++
	return nil
}

type fakeTxBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeTxBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

type fakeDomainRepo struct {
	ids     map[string]int64
	nextID  int64
	created []string
	err     error
}

func newFakeDomainRepo() *fakeDomainRepo {
	return &fakeDomainRepo{ids: make(map[string]int64), nextID: 1}
}

func (r *fakeDomainRepo) GetOrCreate(_ context.Context, name string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if id, ok := r.ids[name]; ok {
		return id, nil
	}
	id := r.nextID
	r.nextID++
	r.ids[name] = id
	r.created = append(r.created, name)
	return id, nil
}

func (r *fakeDomainRepo) GetByName(_ context.Context, name string) (*models.Domain, error) {
	id, ok := r.ids[name]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.Domain{ID: id, Name: name}, nil
}

func (r *fakeDomainRepo) List(context.Context) ([]models.Domain, error) {
	out := make([]models.Domain, 0, len(r.ids))
	for name, id := range r.ids {
		out = append(out, models.Domain{ID: id, Name: name})
	}
	return out, nil
}

type fakeItemRepo struct {
	existing  map[string]bool
	inserted  []models.Item
	items     []models.Item
	insertErr error
	existsErr error
	listErr   error
}

func newFakeItemRepo(existingTitles ...string) *fakeItemRepo {
	existing := make(map[string]bool, len(existingTitles))
	for _, title := range existingTitles {
		existing[title] = true
	}
	return &fakeItemRepo{existing: existing}
}

func (r *fakeItemRepo) ExistsByTitle(_ context.Context, _ database.Querier, title string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.existing[title], nil
}

func (r *fakeItemRepo) Insert(_ context.Context, _ database.Querier, item *models.Item) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	item.ID = int64(len(r.inserted) + 1)
	r.inserted = append(r.inserted, *item)
	r.existing[item.Title] = true
	return nil
}

func (r *fakeItemRepo) ListByDomainIDs(_ context.Context, domainIDs []int64) ([]models.Item, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	allowed := make(map[int64]bool, len(domainIDs))
	for _, id := range domainIDs {
		allowed[id] = true
	}
	var out []models.Item
	for _, item := range r.items {
		if allowed[item.DomainID] {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	byEmail   map[string]*models.User
	nextID    int64
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakePrefRepo struct {
	byUser     map[int64][]int64
	replaceErr error
	listErr    error
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{byUser: make(map[int64][]int64)}
}

func (r *fakePrefRepo) Replace(_ context.Context, userID int64, domainIDs []int64) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.byUser[userID] = append([]int64(nil), domainIDs...)
	return nil
}

func (r *fakePrefRepo) ListDomainIDs(_ context.Context, userID int64) ([]int64, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.byUser[userID], nil
}
