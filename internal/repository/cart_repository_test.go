package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *storeSuite) TestInsertLine() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		owner     domain.Owner
		quantity  int
		wantError string
	}{
		{
			name:     "insert line for user: ok",
			owner:    domain.UserOwner(gofakeit.UUID()),
			quantity: gofakeit.IntRange(1, 10),
		},
		{
			name:     "insert line for session: ok",
			owner:    domain.SessionOwner(gofakeit.UUID()),
			quantity: 1,
		},
		{
			name:      "insert line with empty owner: error",
			owner:     domain.Owner{},
			quantity:  1,
			wantError: "ownerID is empty",
		},
		{
			name:      "insert line with both owner ids: error",
			owner:     domain.Owner{UserID: gofakeit.UUID(), SessionID: gofakeit.UUID()},
			quantity:  1,
			wantError: "owner has both user and session id",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			carts := suite.store.Carts()
			productID := uuid.New()

			line, err := carts.InsertLine(ctx, tt.owner, productID, tt.quantity)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			cart, err := carts.GetCart(ctx, tt.owner)
			require.NoError(t, err)

			require.Len(t, cart.Lines, 1)
			assertCartLine(t, line, cart.Lines[0])
			assert.Equal(t, productID, cart.Lines[0].ProductID)
			assert.Equal(t, tt.quantity, cart.Lines[0].Quantity)
		})
	}
}

func (suite *storeSuite) TestInsertLine_Duplicate() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	carts := suite.store.Carts()
	owner := randomOwner()
	productID := uuid.New()

	_, err := carts.InsertLine(ctx, owner, productID, 1)
	require.NoError(t, err)

	_, err = carts.InsertLine(ctx, owner, productID, 2)
	require.ErrorIs(t, err, port.ErrLineExists)

	// same product for another owner is a separate line
	_, err = carts.InsertLine(ctx, randomOwner(), productID, 2)
	require.NoError(t, err)
}

func (suite *storeSuite) TestSetQuantity() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	carts := suite.store.Carts()
	owner := randomOwner()

	line, err := carts.InsertLine(ctx, owner, uuid.New(), 1)
	require.NoError(t, err)

	err = carts.SetQuantity(ctx, owner, line.ID, 7)
	require.NoError(t, err)

	got, err := carts.GetLine(ctx, owner, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	// foreign owner does not see the line
	err = carts.SetQuantity(ctx, randomOwner(), line.ID, 3)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = carts.GetLine(ctx, randomOwner(), line.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *storeSuite) TestDeleteLine() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		insert      bool
		foreign     bool
		wantDeleted bool
	}{
		{
			name:        "delete existing line: ok",
			insert:      true,
			wantDeleted: true,
		},
		{
			name:        "delete line of another owner: not deleted",
			insert:      true,
			foreign:     true,
			wantDeleted: false,
		},
		{
			name:        "delete absent line: not deleted",
			wantDeleted: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			carts := suite.store.Carts()
			owner := randomOwner()

			lineID := uuid.New()
			if tt.insert {
				line, err := carts.InsertLine(ctx, owner, uuid.New(), 2)
				require.NoError(t, err)
				lineID = line.ID
			}

			deleteAs := owner
			if tt.foreign {
				deleteAs = randomOwner()
			}

			deleted, err := carts.DeleteLine(ctx, deleteAs, lineID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)
		})
	}
}

func (suite *storeSuite) TestClearAndCount() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	carts := suite.store.Carts()
	owner := randomOwner()
	other := randomOwner()

	count, err := carts.Count(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)

	for _, qty := range []int{3, 2} {
		_, err := carts.InsertLine(ctx, owner, uuid.New(), qty)
		require.NoError(t, err)
	}
	_, err = carts.InsertLine(ctx, other, uuid.New(), 4)
	require.NoError(t, err)

	count, err = carts.Count(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	cleared, err := carts.Clear(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)

	// clearing an empty cart is a no-op
	cleared, err = carts.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, cleared)

	count, err = carts.Count(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func (suite *storeSuite) TestGetCart_UserAndSessionAreSeparate() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	carts := suite.store.Carts()
	id := gofakeit.UUID()

	_, err := carts.InsertLine(ctx, domain.UserOwner(id), uuid.New(), 1)
	require.NoError(t, err)

	cart, err := carts.GetCart(ctx, domain.SessionOwner(id))
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func assertCartLine(t *testing.T, expected, actual domain.CartLine) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.EquateApproxTime(0),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
}
