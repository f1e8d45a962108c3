package casting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tnwnrrl/schedule/internal/calendar"
	"github.com/tnwnrrl/schedule/internal/domain/actor"
	"github.com/tnwnrrl/schedule/internal/domain/schedule"
	"github.com/tnwnrrl/schedule/internal/pkg/database"
)

type fakeTx struct {
	*sqlx.Tx
	repo *fakeCastingRepo
}

func (t *fakeTx) Commit() error {
	t.repo.committed = true
	return nil
}

func (t *fakeTx) Rollback() error { return nil }

type fakeCastingRepo struct {
	rows      map[string]*Casting
	actors    map[uuid.UUID]*actor.Actor
	slots     map[uuid.UUID]*schedule.PerformanceDate
	committed bool
}

func newFakeCastingRepo() *fakeCastingRepo {
	return &fakeCastingRepo{
		rows:   map[string]*Casting{},
		actors: map[uuid.UUID]*actor.Actor{},
		slots:  map[uuid.UUID]*schedule.PerformanceDate{},
	}
}

func slotRoleKey(performanceDateID uuid.UUID, roleType actor.RoleType) string {
	return performanceDateID.String() + "/" + string(roleType)
}

func (f *fakeCastingRepo) join(row *Casting) {
	if a, ok := f.actors[row.ActorID]; ok {
		row.ActorName = a.Name
		row.ActorCalendarID = a.CalendarID
		row.ActorEmail = a.UserEmail
	}
	if pd, ok := f.slots[row.PerformanceDateID]; ok {
		row.Date = pd.Date
		row.ShowTime = pd.ShowTime
		row.EndTime = pd.EndTime
		row.SlotLabel = pd.Label
	}
}

func (f *fakeCastingRepo) BeginTx(ctx context.Context) (database.Tx, error) {
	return &fakeTx{repo: f}, nil
}

func (f *fakeCastingRepo) GetBySlotRole(ctx context.Context, performanceDateID uuid.UUID, roleType actor.RoleType) (*Casting, error) {
	row, ok := f.rows[slotRoleKey(performanceDateID, roleType)]
	if !ok {
		return nil, ErrCastingNotFound
	}
	f.join(row)
	cp := *row
	return &cp, nil
}

func (f *fakeCastingRepo) List(ctx context.Context) ([]*Casting, error) {
	out := make([]*Casting, 0)
	for _, row := range f.rows {
		f.join(row)
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCastingRepo) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*Casting, error) {
	out := make([]*Casting, 0)
	for _, row := range f.rows {
		if row.ActorID != actorID {
			continue
		}
		f.join(row)
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCastingRepo) ListByPerformanceDates(ctx context.Context, ids []uuid.UUID) ([]*Casting, error) {
	out := make([]*Casting, 0)
	for _, row := range f.rows {
		for _, id := range ids {
			if row.PerformanceDateID == id {
				f.join(row)
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeCastingRepo) ListUnsynced(ctx context.Context) ([]*Casting, error) {
	out := make([]*Casting, 0)
	for _, row := range f.rows {
		if !row.Synced {
			f.join(row)
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCastingRepo) ListFutureMaleLead(ctx context.Context, from time.Time) ([]*Casting, error) {
	out := make([]*Casting, 0)
	for _, row := range f.rows {
		f.join(row)
		if row.RoleType == actor.RoleTypeMaleLead && !row.Date.Before(from) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeCastingRepo) ListFromDate(ctx context.Context, from time.Time) ([]*Casting, error) {
	out := make([]*Casting, 0)
	for _, row := range f.rows {
		f.join(row)
		if !row.Date.Before(from) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeCastingRepo) Upsert(ctx context.Context, q sqlx.ExtContext, c *Casting) error {
	key := slotRoleKey(c.PerformanceDateID, c.RoleType)
	row, ok := f.rows[key]
	if !ok {
		row = &Casting{ID: uuid.New(), PerformanceDateID: c.PerformanceDateID, RoleType: c.RoleType}
		f.rows[key] = row
	}
	row.ActorID = c.ActorID
	row.Synced = false
	row.CalendarEventID = sql.NullString{}
	row.AllCalendarEventID = sql.NullString{}
	c.ID = row.ID
	return nil
}

func (f *fakeCastingRepo) DeleteBySlotRole(ctx context.Context, q sqlx.ExtContext, performanceDateID uuid.UUID, roleType actor.RoleType) error {
	delete(f.rows, slotRoleKey(performanceDateID, roleType))
	return nil
}

func (f *fakeCastingRepo) DeleteByActorAndPerformanceDates(ctx context.Context, q sqlx.ExtContext, actorID uuid.UUID, performanceDateIDs []uuid.UUID) ([]*Casting, error) {
	removed := make([]*Casting, 0)
	for key, row := range f.rows {
		if row.ActorID != actorID {
			continue
		}
		for _, id := range performanceDateIDs {
			if row.PerformanceDateID == id {
				f.join(row)
				cp := *row
				removed = append(removed, &cp)
				delete(f.rows, key)
				break
			}
		}
	}
	return removed, nil
}

func (f *fakeCastingRepo) MarkSynced(ctx context.Context, id uuid.UUID, eventID, allEventID string) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.Synced = true
			row.CalendarEventID = sql.NullString{String: eventID, Valid: eventID != ""}
			row.AllCalendarEventID = sql.NullString{String: allEventID, Valid: allEventID != ""}
			return nil
		}
	}
	return ErrCastingNotFound
}

type fakeActorRepo struct {
	actors map[uuid.UUID]*actor.Actor
}

func (f *fakeActorRepo) List(ctx context.Context) ([]*actor.Actor, error)   { return nil, nil }
func (f *fakeActorRepo) Roster(ctx context.Context) ([]*actor.Actor, error) { return nil, nil }
func (f *fakeActorRepo) GetByID(ctx context.Context, id uuid.UUID) (*actor.Actor, error) {
	a, ok := f.actors[id]
	if !ok {
		return nil, actor.ErrActorNotFound
	}
	return a, nil
}
func (f *fakeActorRepo) Create(ctx context.Context, a *actor.Actor) error { return nil }
func (f *fakeActorRepo) Update(ctx context.Context, a *actor.Actor) error { return nil }
func (f *fakeActorRepo) UpdateCalendarID(ctx context.Context, id uuid.UUID, calendarID string) error {
	return nil
}
func (f *fakeActorRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeDatesRepo struct {
	slots map[uuid.UUID]*schedule.PerformanceDate
}

func (f *fakeDatesRepo) ListByRange(ctx context.Context, from, to time.Time) ([]*schedule.PerformanceDate, error) {
	return nil, nil
}
func (f *fakeDatesRepo) ListAll(ctx context.Context) ([]*schedule.PerformanceDate, error) {
	return nil, nil
}
func (f *fakeDatesRepo) GetByID(ctx context.Context, id uuid.UUID) (*schedule.PerformanceDate, error) {
	pd, ok := f.slots[id]
	if !ok {
		return nil, schedule.ErrPerformanceDateNotFound
	}
	return pd, nil
}
func (f *fakeDatesRepo) GetByDateShowTime(ctx context.Context, date time.Time, showTime string) (*schedule.PerformanceDate, error) {
	for _, pd := range f.slots {
		if pd.Date.Equal(date) && pd.ShowTime == showTime {
			return pd, nil
		}
	}
	return nil, schedule.ErrPerformanceDateNotFound
}
func (f *fakeDatesRepo) InsertSlots(ctx context.Context, slots []*schedule.PerformanceDate) error {
	return nil
}

type memoUpsert struct {
	performanceDateID uuid.UUID
	hasReservation    bool
	name              string
	contact           string
}

type fakeReservations struct {
	memoName    string
	memoContact string
	upserts     []memoUpsert
}

func (f *fakeReservations) GetMemo(ctx context.Context, performanceDateID uuid.UUID) (string, string, error) {
	return f.memoName, f.memoContact, nil
}

func (f *fakeReservations) Upsert(ctx context.Context, performanceDateID uuid.UUID, hasReservation bool, name, contact string) error {
	f.upserts = append(f.upserts, memoUpsert{performanceDateID, hasReservation, name, contact})
	return nil
}

type fakeUnavailability struct {
	blocked map[string]bool
}

func (f *fakeUnavailability) Exists(ctx context.Context, actorID, performanceDateID uuid.UUID) (bool, error) {
	return f.blocked[actorID.String()+"/"+performanceDateID.String()], nil
}

type deletedEvent struct {
	roleType string
	eventID  string
	notify   bool
}

type fakeCastingMirror struct {
	created []calendar.CastingEvent
	deleted []deletedEvent
	patched []*string
	failFor string
	seq     int
}

func (f *fakeCastingMirror) CreateCastingEvent(ctx context.Context, ev calendar.CastingEvent) (string, string, error) {
	if f.failFor != "" && ev.ActorName == f.failFor {
		return "", "", errors.New("calendar insert failed")
	}
	f.created = append(f.created, ev)
	f.seq++
	return fmt.Sprintf("ev-%d", f.seq), fmt.Sprintf("all-%d", f.seq), nil
}

func (f *fakeCastingMirror) DeleteCastingEvent(ctx context.Context, roleType, actorCalendarID, eventID, allEventID string, notify bool) {
	f.deleted = append(f.deleted, deletedEvent{roleType: roleType, eventID: eventID, notify: notify})
}

func (f *fakeCastingMirror) UpdateDescription(ctx context.Context, roleType, actorCalendarID, eventID, allEventID string, description *string) error {
	f.patched = append(f.patched, description)
	return nil
}

type castingFixture struct {
	repo   *fakeCastingRepo
	mirror *fakeCastingMirror
	res    *fakeReservations
	un     *fakeUnavailability
	svc    *Service

	slot       *schedule.PerformanceDate
	maleLead   *actor.Actor
	femaleLead *actor.Actor
}

func newCastingFixture() *castingFixture {
	repo := newFakeCastingRepo()

	slot := &schedule.PerformanceDate{
		ID:       uuid.New(),
		Date:     time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
		ShowTime: "13:00",
	}
	repo.slots[slot.ID] = slot

	maleLead := &actor.Actor{
		ID:         uuid.New(),
		Name:       "이도현",
		RoleType:   actor.RoleTypeMaleLead,
		CalendarID: sql.NullString{String: "cal-male", Valid: true},
	}
	femaleLead := &actor.Actor{
		ID:         uuid.New(),
		Name:       "김하늘",
		RoleType:   actor.RoleTypeFemaleLead,
		CalendarID: sql.NullString{String: "cal-female", Valid: true},
	}
	repo.actors[maleLead.ID] = maleLead
	repo.actors[femaleLead.ID] = femaleLead

	mirror := &fakeCastingMirror{}
	res := &fakeReservations{}
	un := &fakeUnavailability{blocked: map[string]bool{}}

	svc := NewService(repo,
		&fakeActorRepo{actors: repo.actors},
		&fakeDatesRepo{slots: repo.slots},
		res, un, mirror)

	return &castingFixture{
		repo: repo, mirror: mirror, res: res, un: un, svc: svc,
		slot: slot, maleLead: maleLead, femaleLead: femaleLead,
	}
}

func TestAssignRejectsRoleMismatch(t *testing.T) {
	fx := newCastingFixture()

	_, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeMaleLead),
		ActorID:           &fx.femaleLead.ID,
	})
	if !errors.Is(err, ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
	if len(fx.repo.rows) != 0 {
		t.Fatal("no casting row must be written")
	}
}

func TestAssignRejectsBlockedSlot(t *testing.T) {
	fx := newCastingFixture()
	fx.un.blocked[fx.femaleLead.ID.String()+"/"+fx.slot.ID.String()] = true

	_, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	})
	if !errors.Is(err, ErrActorUnavailable) {
		t.Fatalf("expected ErrActorUnavailable, got %v", err)
	}
}

func TestAssignPublishesCalendarEvent(t *testing.T) {
	fx := newCastingFixture()

	resp, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Synced {
		t.Fatal("response must report the casting as synced")
	}

	if len(fx.mirror.created) != 1 {
		t.Fatalf("expected 1 calendar event, got %d", len(fx.mirror.created))
	}
	ev := fx.mirror.created[0]
	if ev.Date != "2026-12-25" || ev.StartTime != "13:00" || ev.ActorName != fx.femaleLead.Name {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.EndTime != "" || ev.Label != "" {
		t.Fatalf("unlabeled slot must publish without end time or label: %+v", ev)
	}

	row, err := fx.repo.GetBySlotRole(context.Background(), fx.slot.ID, actor.RoleTypeFemaleLead)
	if err != nil {
		t.Fatalf("row must exist: %v", err)
	}
	if !row.Synced || row.CalendarEventID.String != "ev-1" || row.AllCalendarEventID.String != "all-1" {
		t.Fatalf("row not marked synced: %+v", row)
	}
}

func TestAssignEventCarriesSlotEndTimeAndLabel(t *testing.T) {
	fx := newCastingFixture()
	fx.slot.EndTime = sql.NullString{String: "15:30", Valid: true}
	fx.slot.Label = sql.NullString{String: "프리뷰", Valid: true}

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fx.mirror.created) != 1 {
		t.Fatalf("expected 1 calendar event, got %d", len(fx.mirror.created))
	}
	ev := fx.mirror.created[0]
	if ev.EndTime != "15:30" {
		t.Fatalf("event end time = %q, want the slot's own", ev.EndTime)
	}
	if ev.Label != "프리뷰" {
		t.Fatalf("event label = %q, want the slot label", ev.Label)
	}
}

func TestAssignReplacesStaleEventSilently(t *testing.T) {
	fx := newCastingFixture()
	other := &actor.Actor{ID: uuid.New(), Name: "박소담", RoleType: actor.RoleTypeFemaleLead}
	fx.repo.actors[other.ID] = other

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &other.ID,
	}); err != nil {
		t.Fatalf("seed assign: %v", err)
	}

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("replace assign: %v", err)
	}

	if len(fx.mirror.deleted) != 1 {
		t.Fatalf("expected 1 stale event delete, got %d", len(fx.mirror.deleted))
	}
	if d := fx.mirror.deleted[0]; d.eventID != "ev-1" || d.notify {
		t.Fatalf("stale delete must be silent: %+v", d)
	}

	row, _ := fx.repo.GetBySlotRole(context.Background(), fx.slot.ID, actor.RoleTypeFemaleLead)
	if row.ActorID != fx.femaleLead.ID {
		t.Fatal("slot must now belong to the new actor")
	}
}

func TestAssignNilActorUnassigns(t *testing.T) {
	fx := newCastingFixture()

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("seed assign: %v", err)
	}

	resp, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
	})
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if resp != nil {
		t.Fatal("unassign must return a nil casting")
	}

	if _, err := fx.repo.GetBySlotRole(context.Background(), fx.slot.ID, actor.RoleTypeFemaleLead); !errors.Is(err, ErrCastingNotFound) {
		t.Fatal("casting row must be gone")
	}

	last := fx.mirror.deleted[len(fx.mirror.deleted)-1]
	if !last.notify {
		t.Fatal("explicit unassign must send the cancellation")
	}
}

func TestAssignNilActorWithoutCasting(t *testing.T) {
	fx := newCastingFixture()

	resp, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeMaleLead),
	})
	if err != nil {
		t.Fatalf("clearing an empty slot must succeed, got %v", err)
	}
	if resp != nil {
		t.Fatal("empty unassign must return a nil casting")
	}
	if len(fx.mirror.deleted) != 0 {
		t.Fatal("no calendar event must be touched")
	}
}

func TestMaleLeadDescriptionCarriesPartnerNotMemo(t *testing.T) {
	fx := newCastingFixture()
	fx.res.memoName = "박지민"
	fx.res.memoContact = "010-1234-5678"

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("partner assign: %v", err)
	}

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeMaleLead),
		ActorID:           &fx.maleLead.ID,
	}); err != nil {
		t.Fatalf("male lead assign: %v", err)
	}

	var maleEvent *calendar.CastingEvent
	for i := range fx.mirror.created {
		if fx.mirror.created[i].RoleType == string(actor.RoleTypeMaleLead) {
			maleEvent = &fx.mirror.created[i]
		}
	}
	if maleEvent == nil {
		t.Fatal("male lead event not published")
	}
	if maleEvent.Description != "상대역: "+fx.femaleLead.Name {
		t.Fatalf("description = %q", maleEvent.Description)
	}
	// booking memo only shows on the performance day itself
	if strings.Contains(maleEvent.Description, "예약자") {
		t.Fatal("future event must not carry the booking memo")
	}
}

func TestAssignFemaleLeadRefreshesPartnerDescription(t *testing.T) {
	fx := newCastingFixture()

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeMaleLead),
		ActorID:           &fx.maleLead.ID,
	}); err != nil {
		t.Fatalf("male lead assign: %v", err)
	}

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("female lead assign: %v", err)
	}

	if len(fx.mirror.patched) != 1 {
		t.Fatalf("expected 1 description patch, got %d", len(fx.mirror.patched))
	}
	patch := fx.mirror.patched[0]
	if patch == nil || *patch != "상대역: "+fx.femaleLead.Name {
		t.Fatalf("unexpected patch: %v", patch)
	}
}

func TestNotifyRequiresLinkedEmail(t *testing.T) {
	fx := newCastingFixture()

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("seed assign: %v", err)
	}

	err := fx.svc.Notify(context.Background(), &NotifyRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
	})
	if !errors.Is(err, ErrNoLinkedEmail) {
		t.Fatalf("expected ErrNoLinkedEmail, got %v", err)
	}
}

func TestNotifyRepublishesEvent(t *testing.T) {
	fx := newCastingFixture()
	fx.femaleLead.UserEmail = sql.NullString{String: "lead@example.com", Valid: true}

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("seed assign: %v", err)
	}

	if err := fx.svc.Notify(context.Background(), &NotifyRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
	}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(fx.mirror.deleted) != 1 || fx.mirror.deleted[0].notify {
		t.Fatalf("old event must be dropped silently: %+v", fx.mirror.deleted)
	}
	if len(fx.mirror.created) != 2 {
		t.Fatalf("expected republished event, got %d creates", len(fx.mirror.created))
	}
	if fx.mirror.created[1].ActorEmail != "lead@example.com" {
		t.Fatal("republished event must carry the attendee email")
	}
}

func TestSyncUnsyncedCountsFailures(t *testing.T) {
	fx := newCastingFixture()
	fx.mirror.failFor = fx.maleLead.Name

	slot2 := &schedule.PerformanceDate{
		ID:       uuid.New(),
		Date:     time.Date(2026, 12, 26, 0, 0, 0, 0, time.UTC),
		ShowTime: "15:15",
	}
	fx.repo.slots[slot2.ID] = slot2

	seed := []*Casting{
		{PerformanceDateID: fx.slot.ID, ActorID: fx.femaleLead.ID, RoleType: actor.RoleTypeFemaleLead},
		{PerformanceDateID: slot2.ID, ActorID: fx.maleLead.ID, RoleType: actor.RoleTypeMaleLead},
	}
	for _, c := range seed {
		if err := fx.repo.Upsert(context.Background(), nil, c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	synced, failed, err := fx.svc.SyncUnsynced(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 1 || failed != 1 {
		t.Fatalf("synced=%d failed=%d, want 1/1", synced, failed)
	}

	male, _ := fx.repo.GetBySlotRole(context.Background(), slot2.ID, actor.RoleTypeMaleLead)
	if male.Synced {
		t.Fatal("failed casting must stay unsynced for the next pass")
	}
}

func TestAssignBatchMixedOutcomes(t *testing.T) {
	fx := newCastingFixture()

	// pre-assigned male lead that the batch clears
	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeMaleLead),
		ActorID:           &fx.maleLead.ID,
	}); err != nil {
		t.Fatalf("seed assign: %v", err)
	}

	memoName := "박지민"
	memoContact := "010-1234-5678"
	req := &BatchRequest{Assignments: []BatchAssignment{
		{
			PerformanceDateID: fx.slot.ID,
			RoleType:          string(actor.RoleTypeFemaleLead),
			ActorID:           &fx.femaleLead.ID,
			MemoName:          &memoName,
			MemoContact:       &memoContact,
		},
		{
			PerformanceDateID: fx.slot.ID,
			RoleType:          string(actor.RoleTypeMaleLead),
			ActorID:           &fx.femaleLead.ID, // wrong role
		},
		{
			PerformanceDateID: fx.slot.ID,
			RoleType:          string(actor.RoleTypeMaleLead),
		},
		{
			// male lead is already cleared by the previous item
			PerformanceDateID: fx.slot.ID,
			RoleType:          string(actor.RoleTypeMaleLead),
		},
	}}

	results, err := fx.svc.AssignBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Status != "assigned" {
		t.Fatalf("results[0] = %+v", results[0])
	}
	if results[1].Status != "error" || results[1].Error == "" {
		t.Fatalf("results[1] = %+v", results[1])
	}
	if results[2].Status != "unassigned" {
		t.Fatalf("results[2] = %+v", results[2])
	}
	if results[3].Status != "unassigned" || results[3].Error != "" {
		t.Fatalf("clearing an empty slot must report unassigned: %+v", results[3])
	}

	if !fx.repo.committed {
		t.Fatal("batch must commit")
	}

	if len(fx.res.upserts) != 1 {
		t.Fatalf("expected 1 memo write, got %d", len(fx.res.upserts))
	}
	memo := fx.res.upserts[0]
	if memo.performanceDateID != fx.slot.ID || !memo.hasReservation || memo.name != memoName || memo.contact != memoContact {
		t.Fatalf("unexpected memo write: %+v", memo)
	}

	if _, err := fx.repo.GetBySlotRole(context.Background(), fx.slot.ID, actor.RoleTypeMaleLead); !errors.Is(err, ErrCastingNotFound) {
		t.Fatal("male lead must be cleared")
	}
	female, err := fx.repo.GetBySlotRole(context.Background(), fx.slot.ID, actor.RoleTypeFemaleLead)
	if err != nil {
		t.Fatalf("female lead must exist: %v", err)
	}
	if !female.Synced {
		t.Fatal("batch-assigned casting must be published")
	}
}

func TestListReturnsAllCastings(t *testing.T) {
	fx := newCastingFixture()

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("seed assign: %v", err)
	}

	list, err := fx.svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 casting, got %d", len(list))
	}
	c := list[0]
	if c.PerformanceDateID != fx.slot.ID || c.ActorName != fx.femaleLead.Name {
		t.Fatalf("unexpected casting: %+v", c)
	}
	if c.Date != "2026-12-25" || c.ShowTime != "13:00" {
		t.Fatalf("casting must carry its slot: %+v", c)
	}
}

func TestRemoveActorEventsDeletesCalendarCopies(t *testing.T) {
	fx := newCastingFixture()
	slot2 := &schedule.PerformanceDate{
		ID:       uuid.New(),
		Date:     time.Date(2026, 12, 26, 0, 0, 0, 0, time.UTC),
		ShowTime: "15:15",
	}
	fx.repo.slots[slot2.ID] = slot2

	for _, id := range []uuid.UUID{fx.slot.ID, slot2.ID} {
		if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
			PerformanceDateID: id,
			RoleType:          string(actor.RoleTypeFemaleLead),
			ActorID:           &fx.femaleLead.ID,
		}); err != nil {
			t.Fatalf("seed assign: %v", err)
		}
	}

	if err := fx.svc.RemoveActorEvents(context.Background(), fx.femaleLead.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fx.mirror.deleted) != 2 {
		t.Fatalf("expected 2 event deletes, got %d", len(fx.mirror.deleted))
	}
	for _, d := range fx.mirror.deleted {
		if d.notify {
			t.Fatalf("cleanup must not send cancellations: %+v", d)
		}
	}
}
