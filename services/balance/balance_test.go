package balance

import (
	"testing"

	containerModel "freight-forward/models/container"
	partnerModel "freight-forward/models/partner"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&partnerModel.Partner{}, &containerModel.Container{}))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestContainerBalance(t *testing.T) {
	assert.True(t, dec("700").Equal(ContainerBalance(dec("1000"), dec("300"))))
	assert.True(t, dec("-50.25").Equal(ContainerBalance(dec("100"), dec("150.25"))))
	assert.True(t, decimal.Zero.Equal(ContainerBalance(dec("0"), dec("0"))))
}

func TestResolveContainerUpdate(t *testing.T) {
	stored := &containerModel.Container{
		BookingCharge:  dec("1000"),
		AdvancePayment: dec("300"),
		BalanceAmount:  dec("700"),
	}

	t.Run("no charge fields present", func(t *testing.T) {
		assert.Nil(t, ResolveContainerUpdate(stored, nil, nil))
	})

	t.Run("advance only uses stored charge", func(t *testing.T) {
		advance := dec("500")
		updates := ResolveContainerUpdate(stored, nil, &advance)
		require.NotNil(t, updates)
		assert.True(t, dec("500").Equal(updates["balance_amount"].(decimal.Decimal)))
		assert.True(t, dec("500").Equal(updates["advance_payment"].(decimal.Decimal)))
		_, hasCharge := updates["booking_charge"]
		assert.False(t, hasCharge, "absent field must not be written")
	})

	t.Run("charge only uses stored advance", func(t *testing.T) {
		charge := dec("1200")
		updates := ResolveContainerUpdate(stored, &charge, nil)
		require.NotNil(t, updates)
		assert.True(t, dec("900").Equal(updates["balance_amount"].(decimal.Decimal)))
	})

	t.Run("both present", func(t *testing.T) {
		charge := dec("2000")
		advance := dec("750.50")
		updates := ResolveContainerUpdate(stored, &charge, &advance)
		require.NotNil(t, updates)
		assert.True(t, dec("1249.50").Equal(updates["balance_amount"].(decimal.Decimal)))
	})
}

func TestPriceListingTotal(t *testing.T) {
	db := setupTestDB(t)

	delivery := partnerModel.Partner{Name: "Dhaka Door Delivery", PartnerType: partnerModel.PartnerTypeDelivery, Price: dec("150")}
	pickup := partnerModel.Partner{Name: "City Pickup", PartnerType: partnerModel.PartnerTypePickup, Price: dec("80")}
	require.NoError(t, db.Create(&delivery).Error)
	require.NoError(t, db.Create(&pickup).Error)

	t.Run("no partner selected", func(t *testing.T) {
		total, err := PriceListingTotal(db, dec("500"), nil)
		require.NoError(t, err)
		assert.True(t, dec("500").Equal(total))
	})

	t.Run("delivery partner price added", func(t *testing.T) {
		total, err := PriceListingTotal(db, dec("500"), &delivery.ID)
		require.NoError(t, err)
		assert.True(t, dec("650").Equal(total))
	})

	t.Run("fresh lookup follows partner price change", func(t *testing.T) {
		require.NoError(t, db.Model(&delivery).Update("price", dec("200")).Error)
		total, err := PriceListingTotal(db, dec("500"), &delivery.ID)
		require.NoError(t, err)
		assert.True(t, dec("700").Equal(total))
	})

	t.Run("pickup partner rejected", func(t *testing.T) {
		_, err := PriceListingTotal(db, dec("500"), &pickup.ID)
		assert.ErrorContains(t, err, "not a delivery partner")
	})

	t.Run("unknown partner rejected", func(t *testing.T) {
		missing := uint(9999)
		_, err := PriceListingTotal(db, dec("500"), &missing)
		assert.ErrorContains(t, err, "not found")
	})
}
