package service_test

import (
	"context"
	"errors"
	"testing"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/payment"
	paymentmocks "go-cinema-ticketing/internal/payment/mocks"
	queuemocks "go-cinema-ticketing/internal/queue/mocks"
	repomocks "go-cinema-ticketing/internal/repository/mocks"
	"go-cinema-ticketing/internal/service"
	servicemocks "go-cinema-ticketing/internal/service/mocks"
	apperrors "go-cinema-ticketing/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	tx            *stubTx
	orders        *repomocks.OrderRepositoryMock
	screenings    *repomocks.ScreeningRepositoryMock
	reservations  *servicemocks.ReservationServiceMock
	gateway       *paymentmocks.GatewayMock
	notifications *queuemocks.NotificationQueueMock
	service       service.OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		tx:            &stubTx{},
		orders:        repomocks.NewOrderRepositoryMock(),
		screenings:    repomocks.NewScreeningRepositoryMock(),
		reservations:  servicemocks.NewReservationServiceMock(),
		gateway:       paymentmocks.NewGatewayMock(),
		notifications: queuemocks.NewNotificationQueueMock(),
	}
	f.service = service.NewOrderService(
		&fakeDB{tx: f.tx},
		f.orders,
		f.screenings,
		f.reservations,
		f.gateway,
		f.notifications,
		nil,
	)
	return f
}

func testUser() *model.User {
	return &model.User{ID: 42, Email: "customer@example.com", Role: model.RoleUser}
}

func testCreateRequest() model.CreateOrderRequest {
	return model.CreateOrderRequest{
		Reservations: []model.CreateReservationRequest{
			{
				ScreeningID: 1,
				Products: []model.CreateReservationProductRequest{
					{ProductID: 10, Number: 2},
				},
			},
		},
	}
}

func testLoadedOrder(status model.OrderStatus) *model.Order {
	return &model.Order{
		ID:         100,
		CustomerID: 42,
		Status:     status,
		Reservations: []*model.Reservation{
			{
				ID:          1,
				OrderID:     100,
				ScreeningID: 1,
				CustomerID:  42,
				Products: []*model.ReservationProduct{
					{ID: 1, ReservationID: 1, ProductID: 10, Number: 2, Product: &model.Product{ID: 10, Name: "Full price", Price: 12.50}},
				},
			},
		},
	}
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	req := testCreateRequest()

	t.Run("Success", func(t *testing.T) {
		f := newOrderServiceFixture()
		loaded := testLoadedOrder(model.OrderStatusPaying)
		items := []payment.LineItem{{Name: "Full price", UnitAmount: 1250, Quantity: 2}}

		f.reservations.On("CheckSeats", ctx, req.Reservations).Return(true, nil)
		f.orders.On("Create", ctx, f.tx, int64(42)).Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPaying}, nil)
		f.orders.On("AddReservation", ctx, f.tx, int64(100), int64(42), int64(1)).Return(&model.Reservation{ID: 1, OrderID: 100, ScreeningID: 1}, nil)
		f.orders.On("AddReservationProduct", ctx, f.tx, int64(1), int64(10), 2).Return(&model.ReservationProduct{ID: 1, ReservationID: 1, ProductID: 10, Number: 2}, nil)
		f.orders.On("FindByID", ctx, int64(100)).Return(loaded, nil)
		f.reservations.On("CheckoutLineItems", loaded).Return(items)
		f.gateway.On("OpenSession", ctx, items, "customer@example.com").Return(&payment.Session{ID: "cs_123", URL: "https://pay.example/cs_123"}, nil)
		f.orders.On("SetCheckoutSession", ctx, int64(100), "cs_123").Return(nil)

		result, err := f.service.Create(ctx, req, user)

		require.NoError(t, err)
		assert.True(t, f.tx.committed)
		assert.Equal(t, "https://pay.example/cs_123", result.URL)
		assert.Equal(t, model.OrderStatusPaying, result.Order.Status)
		require.NotNil(t, result.Order.CheckoutSessionID)
		assert.Equal(t, "cs_123", *result.Order.CheckoutSessionID)
	})

	t.Run("NotEnoughSeats", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.reservations.On("CheckSeats", ctx, req.Reservations).Return(false, nil)

		_, err := f.service.Create(ctx, req, user)

		assert.ErrorIs(t, err, apperrors.ErrNotEnoughSeats)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ReferentialGuardRollsBack", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.reservations.On("CheckSeats", ctx, req.Reservations).Return(true, nil)
		f.orders.On("Create", ctx, f.tx, int64(42)).Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPaying}, nil)
		f.orders.On("AddReservation", ctx, f.tx, int64(100), int64(42), int64(1)).Return(nil, apperrors.ErrScreeningNotFound)

		_, err := f.service.Create(ctx, req, user)

		assert.ErrorIs(t, err, apperrors.ErrScreeningNotFound)
		assert.True(t, f.tx.rolledBack)
		assert.False(t, f.tx.committed)
		// The tx rollback is the cleanup; no compensation write happens.
		f.orders.AssertNotCalled(t, "ForceStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("GatewayFailureCancelsOrder", func(t *testing.T) {
		f := newOrderServiceFixture()
		loaded := testLoadedOrder(model.OrderStatusPaying)
		items := []payment.LineItem{{Name: "Full price", UnitAmount: 1250, Quantity: 2}}

		f.reservations.On("CheckSeats", ctx, req.Reservations).Return(true, nil)
		f.orders.On("Create", ctx, f.tx, int64(42)).Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPaying}, nil)
		f.orders.On("AddReservation", ctx, f.tx, int64(100), int64(42), int64(1)).Return(&model.Reservation{ID: 1, OrderID: 100, ScreeningID: 1}, nil)
		f.orders.On("AddReservationProduct", ctx, f.tx, int64(1), int64(10), 2).Return(&model.ReservationProduct{ID: 1, ReservationID: 1, ProductID: 10, Number: 2}, nil)
		f.orders.On("FindByID", ctx, int64(100)).Return(loaded, nil)
		f.reservations.On("CheckoutLineItems", loaded).Return(items)
		f.gateway.On("OpenSession", ctx, items, "customer@example.com").Return(nil, errors.New("provider down"))
		f.orders.On("ForceStatus", mock.Anything, int64(100), model.OrderStatusCancelled).Return(nil)

		_, err := f.service.Create(ctx, req, user)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
		f.orders.AssertCalled(t, "ForceStatus", mock.Anything, int64(100), model.OrderStatusCancelled)
	})
}

func TestOrderService_Reconcile(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	t.Run("CapacityHeldCapturesAndPays", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := testLoadedOrder(model.OrderStatusPaying)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)
		f.screenings.On("LockForUpdate", ctx, f.tx, []int64{1}).Return(nil)
		f.reservations.On("RecheckSeatsInTx", ctx, f.tx, order).Return(true, nil)
		f.gateway.On("Reconcile", ctx, "cs_123", true).Return(true, nil)
		f.orders.On("SettleStatus", ctx, f.tx, int64(100), model.OrderStatusPayed).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPayed}, nil)
		f.notifications.On("Publish", mock.Anything, mock.Anything).Return(nil)

		settled, err := f.service.Reconcile(ctx, "cs_123", user)

		require.NoError(t, err)
		assert.True(t, f.tx.committed)
		assert.Equal(t, model.OrderStatusPayed, settled.Status)
		assert.NotEmpty(t, settled.Reservations)
	})

	t.Run("CapacityLostReleasesAndCancels", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := testLoadedOrder(model.OrderStatusPaying)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)
		f.screenings.On("LockForUpdate", ctx, f.tx, []int64{1}).Return(nil)
		f.reservations.On("RecheckSeatsInTx", ctx, f.tx, order).Return(false, nil)
		f.gateway.On("Reconcile", ctx, "cs_123", false).Return(false, nil)
		f.orders.On("SettleStatus", ctx, f.tx, int64(100), model.OrderStatusCancelled).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusCancelled}, nil)
		f.notifications.On("Publish", mock.Anything, mock.Anything).Return(nil)

		settled, err := f.service.Reconcile(ctx, "cs_123", user)

		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, settled.Status)
	})

	t.Run("DeactivatedScreeningReleasesPayment", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := testLoadedOrder(model.OrderStatusPaying)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)
		f.screenings.On("LockForUpdate", ctx, f.tx, []int64{1}).Return(apperrors.ErrScreeningNotFound)
		f.gateway.On("Reconcile", ctx, "cs_123", false).Return(false, nil)
		f.orders.On("SettleStatus", ctx, f.tx, int64(100), model.OrderStatusCancelled).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusCancelled}, nil)
		f.notifications.On("Publish", mock.Anything, mock.Anything).Return(nil)

		settled, err := f.service.Reconcile(ctx, "cs_123", user)

		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, settled.Status)
		f.reservations.AssertNotCalled(t, "RecheckSeatsInTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("GatewayErrorCancels", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := testLoadedOrder(model.OrderStatusPaying)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)
		f.screenings.On("LockForUpdate", ctx, f.tx, []int64{1}).Return(nil)
		f.reservations.On("RecheckSeatsInTx", ctx, f.tx, order).Return(true, nil)
		f.gateway.On("Reconcile", ctx, "cs_123", true).Return(false, errors.New("timeout"))
		f.orders.On("SettleStatus", ctx, f.tx, int64(100), model.OrderStatusCancelled).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusCancelled}, nil)
		f.notifications.On("Publish", mock.Anything, mock.Anything).Return(nil)

		settled, err := f.service.Reconcile(ctx, "cs_123", user)

		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, settled.Status)
	})

	t.Run("TerminalOrderShortCircuits", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := testLoadedOrder(model.OrderStatusPayed)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)

		settled, err := f.service.Reconcile(ctx, "cs_123", user)

		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPayed, settled.Status)
		f.gateway.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "SettleStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LostSettlementRaceReturnsWinner", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := testLoadedOrder(model.OrderStatusPaying)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)
		f.screenings.On("LockForUpdate", ctx, f.tx, []int64{1}).Return(nil)
		f.reservations.On("RecheckSeatsInTx", ctx, f.tx, order).Return(true, nil)
		f.gateway.On("Reconcile", ctx, "cs_123", true).Return(true, nil)
		f.orders.On("SettleStatus", ctx, f.tx, int64(100), model.OrderStatusPayed).
			Return(nil, apperrors.ErrInvalidOrderStatus)
		f.orders.On("FindByID", ctx, int64(100)).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusCancelled}, nil)

		settled, err := f.service.Reconcile(ctx, "cs_123", user)

		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, settled.Status)
		assert.False(t, f.tx.committed)
	})

	t.Run("SettleFailureCancelsOrder", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := testLoadedOrder(model.OrderStatusPaying)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)
		f.screenings.On("LockForUpdate", ctx, f.tx, []int64{1}).Return(nil)
		f.reservations.On("RecheckSeatsInTx", ctx, f.tx, order).Return(true, nil)
		f.gateway.On("Reconcile", ctx, "cs_123", true).Return(true, nil)
		f.orders.On("SettleStatus", ctx, f.tx, int64(100), model.OrderStatusPayed).
			Return(nil, errors.New("connection reset"))
		f.orders.On("ForceStatus", mock.Anything, int64(100), model.OrderStatusCancelled).Return(nil)

		_, err := f.service.Reconcile(ctx, "cs_123", user)

		require.Error(t, err)
		f.orders.AssertCalled(t, "ForceStatus", mock.Anything, int64(100), model.OrderStatusCancelled)
		f.notifications.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("CommitFailureCancelsOrder", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.tx.commitErr = errors.New("connection reset")
		order := testLoadedOrder(model.OrderStatusPaying)

		f.orders.On("FindByCheckoutSession", ctx, "cs_123", int64(42)).Return(order, nil)
		f.screenings.On("LockForUpdate", ctx, f.tx, []int64{1}).Return(nil)
		f.reservations.On("RecheckSeatsInTx", ctx, f.tx, order).Return(true, nil)
		f.gateway.On("Reconcile", ctx, "cs_123", true).Return(true, nil)
		f.orders.On("SettleStatus", ctx, f.tx, int64(100), model.OrderStatusPayed).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPayed}, nil)
		f.orders.On("ForceStatus", mock.Anything, int64(100), model.OrderStatusCancelled).Return(nil)

		_, err := f.service.Reconcile(ctx, "cs_123", user)

		require.Error(t, err)
		// The order must not stay PAYING after an observed persistence failure.
		f.orders.AssertCalled(t, "ForceStatus", mock.Anything, int64(100), model.OrderStatusCancelled)
		f.notifications.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("UnknownSession", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByCheckoutSession", ctx, "cs_missing", int64(42)).Return(nil, apperrors.ErrOrderNotFound)

		_, err := f.service.Reconcile(ctx, "cs_missing", user)

		assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	})
}

func TestOrderService_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCanRead", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByID", ctx, int64(100)).Return(testLoadedOrder(model.OrderStatusPayed), nil)

		order, err := f.service.FindByID(ctx, 100, testUser())

		require.NoError(t, err)
		assert.Equal(t, int64(100), order.ID)
	})

	t.Run("AdminCanRead", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByID", ctx, int64(100)).Return(testLoadedOrder(model.OrderStatusPayed), nil)

		admin := &model.User{ID: 1, Role: model.RoleAdmin}
		_, err := f.service.FindByID(ctx, 100, admin)

		require.NoError(t, err)
	})

	t.Run("OtherCustomerForbidden", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByID", ctx, int64(100)).Return(testLoadedOrder(model.OrderStatusPayed), nil)

		other := &model.User{ID: 43, Role: model.RoleUser}
		_, err := f.service.FindByID(ctx, 100, other)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("NilUserForbidden", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByID", ctx, int64(100)).Return(testLoadedOrder(model.OrderStatusPayed), nil)

		_, err := f.service.FindByID(ctx, 100, nil)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}
