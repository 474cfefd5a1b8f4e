package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Заглушки репозиториев и инфраструктуры на функциональных полях:
// тест задаёт только то, что реально вызывается.

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type stubUserRepo struct {
	createFn     func(ctx context.Context, user *domain.User) (*domain.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	listFn       func(ctx context.Context, skip, limit int) ([]domain.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return s.createFn(ctx, user)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubUserRepo) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return s.listFn(ctx, skip, limit)
}

type stubHasher struct {
	hashFn    func(password string) (string, error)
	compareFn func(hash, password string) error
}

func (s *stubHasher) Hash(password string) (string, error) {
	return s.hashFn(password)
}

func (s *stubHasher) Compare(hash, password string) error {
	return s.compareFn(hash, password)
}

type stubTokenManager struct {
	issueFn func(email string) (string, error)
	parseFn func(token string) (string, error)
}

func (s *stubTokenManager) Issue(email string) (string, error) {
	return s.issueFn(email)
}

func (s *stubTokenManager) ParseSubject(token string) (string, error) {
	return s.parseFn(token)
}

type stubProductRepo struct {
	createFn         func(ctx context.Context, product *domain.Product) (*domain.Product, error)
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	updateFn         func(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error)
	updateImageURLFn func(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error)
	deleteFn         func(ctx context.Context, id uuid.UUID) error
	listFn           func(ctx context.Context, skip, limit int) ([]domain.Product, error)
}

func (s *stubProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return s.createFn(ctx, product)
}

func (s *stubProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubProductRepo) Update(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error) {
	return s.updateFn(ctx, id, product)
}

func (s *stubProductRepo) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error) {
	return s.updateImageURLFn(ctx, id, imageURL)
}

func (s *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func (s *stubProductRepo) List(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	return s.listFn(ctx, skip, limit)
}

type stubCacheRepo struct {
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	setFn    func(ctx context.Context, product *domain.Product) error
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s *stubCacheRepo) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, id)
}

func (s *stubCacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	if s.setFn == nil {
		return nil
	}
	return s.setFn(ctx, product)
}

func (s *stubCacheRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type stubOrderRepo struct {
	createHeaderFn func(ctx context.Context, order *domain.Order) (*domain.Order, error)
	addItemFn      func(ctx context.Context, orderID, productID uuid.UUID, quantity int32) (*domain.OrderItem, error)
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	listFn         func(ctx context.Context, skip, limit int) ([]domain.Order, error)
	listByUserFn   func(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
}

func (s *stubOrderRepo) CreateHeader(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return s.createHeaderFn(ctx, order)
}

func (s *stubOrderRepo) AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int32) (*domain.OrderItem, error) {
	return s.addItemFn(ctx, orderID, productID, quantity)
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubOrderRepo) List(ctx context.Context, skip, limit int) ([]domain.Order, error) {
	return s.listFn(ctx, skip, limit)
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.listByUserFn(ctx, userID)
}

type stubOutboxRepo struct {
	createFn func(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
}

func (s *stubOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if s.createFn == nil {
		return event, nil
	}
	return s.createFn(ctx, event)
}

func (s *stubOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (s *stubOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

// recordingTx фиксирует вызовы Commit/Rollback вместо обращения к БД.
type recordingTx struct {
	committed  bool
	rolledBack bool
}

func (t *recordingTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *recordingTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *recordingTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

func (t *recordingTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *recordingTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *recordingTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *recordingTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *recordingTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *recordingTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *recordingTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (t *recordingTx) Conn() *pgx.Conn { return nil }

type stubTxBeginner struct {
	tx *recordingTx
}

func (s *stubTxBeginner) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return s.tx, nil
}

type stubImageInfra struct {
	uploadFn  func(ctx context.Context, req *AttachImageReq) (string, error)
	cleanupFn func(key string)
}

func (s *stubImageInfra) UploadProductImage(ctx context.Context, req *AttachImageReq) (string, error) {
	return s.uploadFn(ctx, req)
}

func (s *stubImageInfra) CleanupImage(key string) {
	if s.cleanupFn != nil {
		s.cleanupFn(key)
	}
}
