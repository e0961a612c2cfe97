package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namehaus/internal/gate"
	"namehaus/internal/registry/service"
	"namehaus/internal/registry/store/ownership"
	"namehaus/internal/registry/store/record"
	"namehaus/internal/roles"
	"namehaus/internal/treasury"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/events"
	"namehaus/pkg/requestcontext"
)

const (
	deployer  = domain.Identity("0xdeployer")
	user      = domain.Identity("0xuser")
	buyer     = domain.Identity("0xbuyer")
	treasurer = domain.Identity("0xtreasury")
)

// unit keeps test prices readable; prices are in the smallest currency unit.
const unit = domain.Amount(1_000_000_000)

type fixture struct {
	svc    *service.Service
	log    *events.MemoryLog
	ledger *treasury.Ledger
	roles  *roles.Service
	gate   *gate.Gate
}

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	log := events.NewMemoryLog()
	ledger := treasury.NewLedger(treasurer)
	roleSvc := roles.NewService(roles.NewMemoryStore(), log, deployer)
	g := gate.New()

	svc := service.New(service.Deps{
		Records:    record.NewMemoryStore(),
		Owners:     ownership.NewMemoryStore(),
		Roles:      roleSvc,
		Gate:       g,
		Settlement: ledger,
		Owner:      deployer,
		Log:        log,
	}, opts...)

	return &fixture{svc: svc, log: log, ledger: ledger, roles: roleSvc, gate: g}
}

func as(identity domain.Identity) context.Context {
	return requestcontext.WithCaller(context.Background(), identity)
}

func (f *fixture) lastEvent(t *testing.T) events.Event {
	t.Helper()
	all, err := f.log.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, all)
	return all[len(all)-1]
}

func TestListStoresLowercaseAndRejectsCaseVariantDuplicate(t *testing.T) {
	f := newFixture(t)

	id, err := f.svc.List(as(deployer), "Jack.ETH", 10*unit)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordID(1), id)

	rec, err := f.svc.GetRecord(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "jack.eth", rec.Name)
	assert.Equal(t, 10*unit, rec.Price)
	assert.False(t, rec.Purchased)
	assert.Equal(t, deployer, rec.Lister)

	_, err = f.svc.List(as(deployer), "JACK.ETH", unit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Equal(t, "name already exists", err.Error())
}

func TestListAssignsSequentialIDsAndEmits(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(as(deployer), "jack.eth", 10*unit)
	require.NoError(t, err)

	id, err := f.svc.List(as(deployer), "john.eth", 25*unit/10)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordID(2), id)

	ev := f.lastEvent(t)
	assert.Equal(t, events.EventRecordListed, ev.Name)
	assert.Equal(t, domain.RecordID(2), ev.RecordID)
	assert.Equal(t, "john.eth", ev.Label)
	assert.Equal(t, 25*unit/10, ev.Price)
	assert.Equal(t, deployer, ev.Actor)
	assert.NotEmpty(t, ev.ID)
}

func TestListRequiresListerRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(as(user), "user.eth", unit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	require.NoError(t, f.roles.Grant(as(deployer), user, roles.Lister))

	id, err := f.svc.List(as(user), "user.eth", unit)
	require.NoError(t, err)

	ev := f.lastEvent(t)
	assert.Equal(t, events.EventRecordListed, ev.Name)
	assert.Equal(t, id, ev.RecordID)
	assert.Equal(t, user, ev.Actor)
}

func TestListRejectsEmptyName(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.List(as(deployer), "   ", unit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestSetPriceAuthorization(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.roles.Grant(as(deployer), user, roles.Lister))
	id, err := f.svc.List(as(user), "user.eth", 10*unit)
	require.NoError(t, err)

	// A stranger can neither reprice nor delist.
	err = f.svc.SetPrice(as(buyer), id, 12*unit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	assert.Equal(t, "not authorized", err.Error())

	// The lister can.
	require.NoError(t, f.svc.SetPrice(as(user), id, 12*unit))
	ev := f.lastEvent(t)
	assert.Equal(t, events.EventRecordPriceUpdated, ev.Name)
	assert.Equal(t, 10*unit, ev.OldPrice)
	assert.Equal(t, 12*unit, ev.Price)
	assert.Equal(t, user, ev.Actor)

	// So can an admin who is not the lister.
	require.NoError(t, f.svc.SetPrice(as(deployer), id, 15*unit))

	rec, err := f.svc.GetRecord(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 15*unit, rec.Price)
}

func TestSetPriceUnknownRecord(t *testing.T) {
	f := newFixture(t)
	err := f.svc.SetPrice(as(deployer), 99, unit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSetPriceRejectedAfterPurchase(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.List(as(deployer), "jack.eth", 10*unit)
	require.NoError(t, err)
	require.NoError(t, f.svc.Mint(as(buyer), id, 10*unit))

	err = f.svc.SetPrice(as(deployer), id, 12*unit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestDelistClearsListingAndFreesLabel(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.List(as(deployer), "jack.eth", 10*unit)
	require.NoError(t, err)

	err = f.svc.Delist(as(user), id)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	require.NoError(t, f.svc.Delist(as(deployer), id))
	ev := f.lastEvent(t)
	assert.Equal(t, events.EventRecordDelisted, ev.Name)
	assert.Equal(t, deployer, ev.Actor)

	rec, err := f.svc.GetRecord(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, rec.Name)
	assert.Zero(t, rec.Price)
	assert.Empty(t, rec.Lister)
	assert.False(t, rec.Purchased)

	// The label is free again; the old id stays allocated.
	relisted, err := f.svc.List(as(deployer), "jack.eth", unit)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordID(2), relisted)
}

func TestDelistPurchasedRecordKeepsOwnership(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.List(as(deployer), "jack.eth", 10*unit)
	require.NoError(t, err)
	require.NoError(t, f.svc.Mint(as(buyer), id, 10*unit))

	require.NoError(t, f.svc.Delist(as(deployer), id))

	rec, err := f.svc.GetRecord(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, rec.Purchased, "purchased flag survives delisting")

	owner, err := f.svc.OwnerOf(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, buyer, owner)

	total, err := f.svc.TotalPurchased(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total, "purchased count never decrements")
}

func TestPauseBlocksMutationsBeforeAnyOtherCheck(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.List(as(deployer), "jack.eth", 10*unit)
	require.NoError(t, err)

	require.NoError(t, f.svc.SetPaused(as(deployer), true))

	// Paused beats authorization: even the admin/lister is refused, and an
	// unauthorized caller sees the pause error, not the auth error.
	for name, call := range map[string]func() error{
		"list":              func() error { _, err := f.svc.List(as(deployer), "pause.eth", unit); return err },
		"setPrice":          func() error { return f.svc.SetPrice(as(deployer), id, 11*unit) },
		"delist":            func() error { return f.svc.Delist(as(deployer), id) },
		"mint":              func() error { return f.svc.Mint(as(buyer), id, 10*unit) },
		"unauthorized list": func() error { _, err := f.svc.List(as(buyer), "pause.eth", unit); return err },
	} {
		err := call()
		require.Error(t, err, name)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable), name)
		assert.Equal(t, "registry paused", err.Error(), name)
	}

	require.NoError(t, f.svc.SetPaused(as(deployer), false))
	_, err = f.svc.List(as(deployer), "after.eth", unit)
	require.NoError(t, err)
}

func TestSetPausedRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	err := f.svc.SetPaused(as(user), true)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	assert.False(t, f.gate.Paused())
}

func TestGetRecordBeyondMaxIDIsZeroValued(t *testing.T) {
	f := newFixture(t)
	rec, err := f.svc.GetRecord(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordID(42), rec.ID)
	assert.Empty(t, rec.Name)
	assert.Zero(t, rec.Price)
	assert.False(t, rec.Purchased)
}

func TestReadsAreIdempotent(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.List(as(deployer), "jack.eth", 10*unit)
	require.NoError(t, err)
	require.NoError(t, f.svc.Mint(as(buyer), id, 10*unit))

	for range 3 {
		rec, err := f.svc.GetRecord(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "jack.eth", rec.Name)

		owner, err := f.svc.OwnerOf(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, buyer, owner)

		maxID, err := f.svc.MaxID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.RecordID(1), maxID)
	}
}
