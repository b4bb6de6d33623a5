package persistence_test

import (
	"context"

	"orders/internal/adapters/out/persistence"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// TestReadModel_Views drives a few orders through the lifecycle and checks every
// read-side view against the resulting rows.
func (suite *UnitOfWorkIntegrationTestSuite) TestReadModel_Views() {
	ctx := context.Background()
	readModel := persistence.NewGormReadModel(suite.db)

	transitions := commands.TransitionUoWFactoryFunc(func() commands.TransitionUoW {
		return suite.factory.Create()
	})
	pay := commands.NewPayOrderCommandHandler(transitions)
	ship := commands.NewShipOrderCommandHandler(transitions)

	paid := suite.persistOrder(2, 1)
	shipped := suite.persistOrder(3)
	open := suite.persistOrder(1)

	for _, o := range []*order.Order{paid, shipped} {
		cmd, err := commands.NewPayOrderCommand(o.ID(), o.Total().Int64())
		suite.Require().NoError(err)
		_, err = pay.Handle(ctx, cmd)
		suite.Require().NoError(err)
	}
	shipCmd, err := commands.NewShipOrderCommand(shipped.ID())
	suite.Require().NoError(err)
	_, err = ship.Handle(ctx, shipCmd)
	suite.Require().NoError(err)

	details, err := readModel.OrderDetails(ctx, paid.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Paid, details.Status)
	suite.Len(details.Items, 2)
	suite.Require().NotNil(details.Payment)
	suite.Equal(paid.Total(), details.Payment.AmountCents)

	details, err = readModel.OrderDetails(ctx, open.ID())
	suite.Require().NoError(err)
	suite.Nil(details.Payment)

	_, err = readModel.OrderDetails(ctx, 999999)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	revenue, err := readModel.Revenue(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(2), revenue.Payments)
	suite.Equal(paid.Total()+shipped.Total(), revenue.TotalCents)

	users, err := readModel.RevenueByUser(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(users, 1)
	suite.Equal(suite.catalog.UserIDs[0], users[0].UserID)
	suite.Equal(int64(2), users[0].Orders)

	counts, err := readModel.OrdersByStatus(ctx)
	suite.Require().NoError(err)
	suite.Equal([]ports.StatusCountView{
		{Status: order.Created, Count: 1},
		{Status: order.Paid, Count: 1},
		{Status: order.Shipped, Count: 1},
	}, counts)

	top, err := readModel.TopProducts(ctx, 1)
	suite.Require().NoError(err)
	suite.Require().Len(top, 1)
	suite.Equal(suite.catalog.ProductIDs[0], top[0].ProductID)
	suite.Equal(int64(6), top[0].QuantitySold)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestReadModel_EmptyRevenue() {
	revenue, err := persistence.NewGormReadModel(suite.db).Revenue(context.Background())

	suite.Require().NoError(err)
	suite.Zero(revenue.TotalCents)
	suite.Zero(revenue.Payments)
}
