package usecase

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dropx-tech/marketplace-backend/internal/domain"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// fakeTx подменяет pgx.Tx: в тестах состояние живёт в памяти,
// коммит и откат ничего не делают.
type fakeTx struct {
	pgx.Tx
}

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeDB struct{}

func (fakeDB) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return fakeTx{}, nil
}

// fakeAddressStore реализует AddressRepository поверх среза в памяти.
type fakeAddressStore struct {
	addresses []domain.Address
	nextID    int64
	now       time.Time
	insertErr error
}

func newFakeAddressStore() *fakeAddressStore {
	return &fakeAddressStore{nextID: 1, now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeAddressStore) forUser(userID int64) []domain.Address {
	var out []domain.Address
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

func (s *fakeAddressStore) ListByUser(_ context.Context, userID int64) ([]domain.Address, error) {
	out := s.forUser(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeAddressStore) ListForUpdate(_ context.Context, userID int64) ([]domain.Address, error) {
	return s.forUser(userID), nil
}

func (s *fakeAddressStore) Insert(_ context.Context, address *domain.Address) (*domain.Address, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	created := *address
	created.ID = s.nextID
	created.CreatedAt = s.now
	s.nextID++
	s.now = s.now.Add(time.Minute)
	s.addresses = append(s.addresses, created)
	return &created, nil
}

func (s *fakeAddressStore) UnsetDefaults(_ context.Context, userID, exceptID int64) error {
	for i := range s.addresses {
		if s.addresses[i].UserID == userID && s.addresses[i].ID != exceptID {
			s.addresses[i].IsDefault = false
		}
	}
	return nil
}

func (s *fakeAddressStore) SetDefault(_ context.Context, userID, addressID int64) (bool, error) {
	for i := range s.addresses {
		if s.addresses[i].UserID == userID && s.addresses[i].ID == addressID {
			s.addresses[i].IsDefault = true
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAddressStore) Delete(_ context.Context, userID, addressID int64) (bool, error) {
	for i := range s.addresses {
		if s.addresses[i].UserID == userID && s.addresses[i].ID == addressID {
			s.addresses = append(s.addresses[:i], s.addresses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAddressStore) PromoteLatest(_ context.Context, userID int64) error {
	latest := -1
	for i := range s.addresses {
		if s.addresses[i].UserID != userID {
			continue
		}
		if latest == -1 || s.addresses[i].CreatedAt.After(s.addresses[latest].CreatedAt) {
			latest = i
		}
	}
	if latest >= 0 {
		s.addresses[latest].IsDefault = true
	}
	return nil
}

func (s *fakeAddressStore) CountDefaults(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, a := range s.addresses {
		if a.UserID == userID && a.IsDefault {
			n++
		}
	}
	return n, nil
}

type fakeOutbox struct {
	events []*OutboxEvent
}

func (f *fakeOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkAsProcessed(_ context.Context, id int64) error { return nil }

func newAddressUC(store *fakeAddressStore, outbox *fakeOutbox) *AddressUseCase {
	return NewAddressUC(store, outbox, fakeDB{}, nopLogger{})
}

func requireSingleDefault(t *testing.T, store *fakeAddressStore, userID, wantID int64) {
	t.Helper()
	var defaults []int64
	for _, a := range store.forUser(userID) {
		if a.IsDefault {
			defaults = append(defaults, a.ID)
		}
	}
	require.Len(t, defaults, 1)
	assert.Equal(t, wantID, defaults[0])
}

func TestAddressUC_Add_FirstAddressBecomesDefault(t *testing.T) {
	store := newFakeAddressStore()
	outbox := &fakeOutbox{}
	uc := newAddressUC(store, outbox)

	created, err := uc.Add(context.Background(), 1, &AddAddressReq{
		Label: "Дом",
		Line1: "ул. Ленина, 1",
		City:  "Казань",
		// клиент явно не просил адрес по умолчанию
		IsDefault: false,
	})
	require.NoError(t, err)
	assert.True(t, created.IsDefault)
	requireSingleDefault(t, store, 1, created.ID)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, EventAddressAdded, outbox.events[0].EventType)
}

func TestAddressUC_Add_NewDefaultUnsetsPrevious(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	first, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)

	second, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Баумана, 5", City: "Казань", IsDefault: true})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	requireSingleDefault(t, store, 1, second.ID)
}

func TestAddressUC_Add_NonDefaultKeepsExistingDefault(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	first, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)

	_, err = uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Баумана, 5", City: "Казань"})
	require.NoError(t, err)

	requireSingleDefault(t, store, 1, first.ID)
}

// Гонка двух первых адресов: проигравший натыкается на уникальный индекс,
// репозиторий переводит это в конфликт инварианта, а не в internal error.
func TestAddressUC_Add_LostFirstAddressRace(t *testing.T) {
	store := newFakeAddressStore()
	store.insertErr = e.Wrap("pgdb.AddressRepo.Insert", e.ErrDefaultConflict)
	outbox := &fakeOutbox{}
	uc := newAddressUC(store, outbox)

	_, err := uc.Add(context.Background(), 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrDefaultConflict)
	assert.Empty(t, outbox.events)
}

func TestAddressUC_Add_Validation(t *testing.T) {
	uc := newAddressUC(newFakeAddressStore(), &fakeOutbox{})

	tests := []struct {
		name string
		req  *AddAddressReq
	}{
		{name: "missing line1", req: &AddAddressReq{City: "Казань"}},
		{name: "missing city", req: &AddAddressReq{Line1: "ул. Ленина, 1"}},
		{name: "whitespace only", req: &AddAddressReq{Line1: "   ", City: "\t"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Add(context.Background(), 1, tc.req)
			assert.ErrorIs(t, err, e.ErrInvalidAddressFields)
		})
	}
}

func TestAddressUC_SetDefault_Switches(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	first, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)
	second, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Баумана, 5", City: "Казань"})
	require.NoError(t, err)

	require.NoError(t, uc.SetDefault(ctx, 1, second.ID))
	requireSingleDefault(t, store, 1, second.ID)

	// Повторное переключение обратно
	require.NoError(t, uc.SetDefault(ctx, 1, first.ID))
	requireSingleDefault(t, store, 1, first.ID)
}

func TestAddressUC_SetDefault_Idempotent(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	first, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)

	require.NoError(t, uc.SetDefault(ctx, 1, first.ID))
	requireSingleDefault(t, store, 1, first.ID)
}

func TestAddressUC_SetDefault_ForeignAddressIsNotFound(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	mine, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)
	foreign, err := uc.Add(ctx, 2, &AddAddressReq{Line1: "ул. Пушкина, 3", City: "Казань"})
	require.NoError(t, err)

	// Чужой адрес неотличим от несуществующего
	err = uc.SetDefault(ctx, 1, foreign.ID)
	assert.ErrorIs(t, err, e.ErrAddressNotFound)

	err = uc.SetDefault(ctx, 1, 9999)
	assert.ErrorIs(t, err, e.ErrAddressNotFound)

	requireSingleDefault(t, store, 1, mine.ID)
	requireSingleDefault(t, store, 2, foreign.ID)
}

func TestAddressUC_Delete_PromotesMostRecent(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	first, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)
	_, err = uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Баумана, 5", City: "Казань"})
	require.NoError(t, err)
	third, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Пушкина, 3", City: "Казань"})
	require.NoError(t, err)

	// first остаётся по умолчанию; удаляем его — назначиться должен
	// последний созданный из оставшихся
	require.NoError(t, uc.Delete(ctx, 1, first.ID))
	requireSingleDefault(t, store, 1, third.ID)
}

func TestAddressUC_Delete_NonDefaultKeepsDefault(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	first, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)
	second, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Баумана, 5", City: "Казань"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, 1, second.ID))
	requireSingleDefault(t, store, 1, first.ID)
}

func TestAddressUC_Delete_LastAddressLeavesEmptyBook(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	only, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, 1, only.ID))
	assert.Empty(t, store.forUser(1))
}

func TestAddressUC_Delete_ForeignAddressIsNotFound(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	foreign, err := uc.Add(ctx, 2, &AddAddressReq{Line1: "ул. Пушкина, 3", City: "Казань"})
	require.NoError(t, err)

	err = uc.Delete(ctx, 1, foreign.ID)
	assert.ErrorIs(t, err, e.ErrAddressNotFound)
	require.Len(t, store.forUser(2), 1)
}

func TestAddressUC_MutationsWriteOutboxEvents(t *testing.T) {
	store := newFakeAddressStore()
	outbox := &fakeOutbox{}
	uc := newAddressUC(store, outbox)
	ctx := context.Background()

	first, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)
	second, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Баумана, 5", City: "Казань"})
	require.NoError(t, err)
	require.NoError(t, uc.SetDefault(ctx, 1, second.ID))
	require.NoError(t, uc.Delete(ctx, 1, first.ID))

	require.Len(t, outbox.events, 4)
	assert.Equal(t, EventAddressAdded, outbox.events[0].EventType)
	assert.Equal(t, EventAddressAdded, outbox.events[1].EventType)
	assert.Equal(t, EventAddressDefault, outbox.events[2].EventType)
	assert.Equal(t, EventAddressDeleted, outbox.events[3].EventType)
	for _, ev := range outbox.events {
		assert.Equal(t, int64(1), ev.UserID)
		assert.NotEmpty(t, ev.EventID)
		assert.NotEmpty(t, ev.Payload)
	}
}

func TestAddressUC_List_ReturnsUserAddressesOnly(t *testing.T) {
	store := newFakeAddressStore()
	uc := newAddressUC(store, &fakeOutbox{})
	ctx := context.Background()

	_, err := uc.Add(ctx, 1, &AddAddressReq{Line1: "ул. Ленина, 1", City: "Казань"})
	require.NoError(t, err)
	_, err = uc.Add(ctx, 2, &AddAddressReq{Line1: "ул. Пушкина, 3", City: "Казань"})
	require.NoError(t, err)

	addrs, err := uc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, "ул. Ленина, 1", addrs[0].Line1)
}
