package screens

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meinhoongagan/marketplace/client"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/poller"
	"github.com/meinhoongagan/marketplace/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	provider = models.User{ID: 7, Name: "Bia", Email: "bia@example.com", AccountType: models.AccountProvider}
	customer = models.User{ID: 3, Name: "Ana", Email: "ana@example.com", AccountType: models.AccountClient}
	root     = models.User{ID: 1, Name: "Root", Email: "root@example.com", AccountType: models.AccountAdmin, IsAdmin: true}
)

var errBackend = errors.New("backend down")

// fakeAPI keeps orders in memory and applies updates the way the server does.
type fakeAPI struct {
	mu        sync.Mutex
	orders    []models.OrderView
	reviews   []models.Review
	providers []models.ProviderListing
	users     map[string]models.User
	fail      bool
	calls     map[string]int
	patched   map[string]interface{}
	nextID    uint
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}, users: map[string]models.User{}, nextID: 100}
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.fail {
		return errBackend
	}
	return nil
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) add(o models.ServiceOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, models.OrderView{ServiceOrder: o})
}

func (f *fakeAPI) order(id uint) models.ServiceOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o.ServiceOrder
		}
	}
	return models.ServiceOrder{}
}

func (f *fakeAPI) Login(_ context.Context, identifier, password string) (*client.LoginResult, error) {
	if err := f.hit("login"); err != nil {
		return nil, err
	}
	u, ok := f.users[identifier]
	if !ok || password != "secret" {
		return nil, &client.APIError{Status: 401, Message: "invalid credentials"}
	}
	return &client.LoginResult{User: u, Token: "token-" + u.Email}, nil
}

func (f *fakeAPI) filter(match func(models.OrderView) bool) []models.OrderView {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.OrderView{}
	for _, o := range f.orders {
		if match(o) {
			out = append(out, o)
		}
	}
	return out
}

func (f *fakeAPI) ProviderOrders(_ context.Context, providerID uint) ([]models.OrderView, error) {
	if err := f.hit("provider_orders"); err != nil {
		return nil, err
	}
	return f.filter(func(o models.OrderView) bool { return o.ProviderID == providerID }), nil
}

func (f *fakeAPI) UserOrders(_ context.Context, userID uint) ([]models.OrderView, error) {
	if err := f.hit("user_orders"); err != nil {
		return nil, err
	}
	return f.filter(func(o models.OrderView) bool { return o.UserID == userID }), nil
}

func (f *fakeAPI) ProviderReviews(_ context.Context, providerID uint) ([]models.ReviewView, error) {
	if err := f.hit("reviews"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ReviewView{}
	for _, r := range f.reviews {
		if r.ProviderID == providerID {
			out = append(out, models.ReviewView{Review: r})
		}
	}
	return out, nil
}

func (f *fakeAPI) Profile(ctx context.Context, userID uint) (*models.ProviderListing, error) {
	return f.Provider(ctx, userID)
}

func (f *fakeAPI) Provider(_ context.Context, id uint) (*models.ProviderListing, error) {
	if err := f.hit("provider"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.providers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "provider not found"}
}

func (f *fakeAPI) CreateOrder(_ context.Context, order models.ServiceOrder) (*models.ServiceOrder, error) {
	if err := f.hit("create_order"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.nextID++
	order.ID = f.nextID
	f.mu.Unlock()
	f.add(order)
	return &order, nil
}

func (f *fakeAPI) UpdateOrder(_ context.Context, id uint, fields map[string]interface{}) (*models.ServiceOrder, error) {
	if err := f.hit("update_order"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		o := &f.orders[i].ServiceOrder
		if o.ID != id {
			continue
		}
		if s, ok := fields["status"].(models.OrderStatus); ok {
			if err := o.Status.CheckTransition(s); err != nil {
				return nil, &client.APIError{Status: 400, Message: err.Error()}
			}
			o.Status = s
		}
		if p, ok := fields["price"].(float64); ok {
			o.Price = p
		}
		if v, ok := fields["photo_before"].(string); ok {
			o.PhotoBefore = v
		}
		if v, ok := fields["photo_after"].(string); ok {
			o.PhotoAfter = v
		}
		out := *o
		return &out, nil
	}
	return nil, &client.APIError{Status: 404, Message: "order not found"}
}

func (f *fakeAPI) CreateReview(_ context.Context, review models.Review) (*models.Review, error) {
	if err := f.hit("create_review"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	review.ID = uint(len(f.reviews) + 1)
	f.reviews = append(f.reviews, review)
	return &review, nil
}

func (f *fakeAPI) UploadPhoto(_ context.Context, filename string, _ []byte) (string, error) {
	if err := f.hit("upload"); err != nil {
		return "", err
	}
	return "https://img.example.com/" + filename, nil
}

func (f *fakeAPI) Patch(_ context.Context, endpoint string, body, _ interface{}) error {
	if err := f.hit("patch"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patched == nil {
		f.patched = map[string]interface{}{}
	}
	f.patched[endpoint] = body
	return nil
}

func (f *fakeAPI) AdminProviders(context.Context) ([]models.ProviderListing, error) {
	if err := f.hit("admin_providers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ProviderListing(nil), f.providers...), nil
}

func (f *fakeAPI) SetProviderStatus(_ context.Context, providerID uint, status models.ProfileStatus) error {
	if err := f.hit("set_status"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.providers {
		if f.providers[i].ID == providerID {
			f.providers[i].Status = status
			return nil
		}
	}
	return &client.APIError{Status: 404, Message: "provider not found"}
}

type notice struct {
	Level   Level
	Message string
}

type recorder struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{level, message})
}

func (r *recorder) has(level Level, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notices {
		if n.Level == level && n.Message == message {
			return true
		}
	}
	return false
}

func (r *recorder) count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.notices {
		if x.Level == level {
			n++
		}
	}
	return n
}

func signIn(t *testing.T, user models.User) *session.Session {
	t.Helper()
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Login(user, "token"))
	return sess
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "unknown", StatusLabel("teleported"))
	assert.NotEqual(t, "unknown", StatusLabel(models.StatusWaitingConfirmation))
}

func TestAvailableActions(t *testing.T) {
	o := models.ServiceOrder{Status: models.StatusInProgress}
	assert.False(t, Allowed(RoleProvider, o, ActionFinish))
	assert.True(t, Allowed(RoleProvider, o, ActionAttachBefore))
	assert.Contains(t, AvailableActions(RoleProvider, o), ActionState{Action: ActionFinish, Enabled: false})

	o.PhotoBefore, o.PhotoAfter = "a", "b"
	assert.True(t, Allowed(RoleProvider, o, ActionFinish))

	assert.False(t, Allowed(RoleClient, models.ServiceOrder{Status: models.StatusPending}, ActionAcceptQuote))
	assert.True(t, Allowed(RoleClient, models.ServiceOrder{Status: models.StatusWaitingClient}, ActionRejectQuote))
	assert.False(t, Allowed(RoleProvider, models.ServiceOrder{Status: models.StatusPending}, ActionReportRain))
	assert.Empty(t, AvailableActions(RoleClient, models.ServiceOrder{Status: models.StatusCompleted}))
}

func TestQuoteFlow(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, UserID: customer.ID, ProviderID: provider.ID, Status: models.StatusPending, Price: 80})

	notes := &recorder{}
	dash := NewProviderDashboard(api, signIn(t, provider), notes)
	require.NoError(t, dash.Load(ctx))
	require.Len(t, dash.Orders(), 1)

	assert.ErrorIs(t, dash.SendQuote(ctx, 1, 0), ErrInvalidQuote)
	require.NoError(t, dash.SendQuote(ctx, 1, 120))
	assert.Equal(t, models.StatusWaitingClient, api.order(1).Status)
	assert.Equal(t, 120.0, api.order(1).Price)
	assert.True(t, notes.has(LevelSuccess, "Quote sent."))

	mine := NewMyOrders(api, signIn(t, customer), notes)
	require.NoError(t, mine.Load(ctx))
	require.NoError(t, mine.AcceptQuote(ctx, 1))
	assert.Equal(t, models.StatusAccepted, api.order(1).Status)

	err := mine.AcceptQuote(ctx, 1)
	assert.ErrorIs(t, err, ErrActionDisabled)
}

func TestProviderDashboardRejectsClients(t *testing.T) {
	dash := NewProviderDashboard(newFakeAPI(), signIn(t, customer), &recorder{})
	assert.ErrorIs(t, dash.Load(context.Background()), ErrWrongRole)

	anon := NewMyOrders(newFakeAPI(), session.New(session.NewMemoryStore()), &recorder{})
	assert.ErrorIs(t, anon.Load(context.Background()), ErrNotSignedIn)
}

func TestEarningsAndActiveOrders(t *testing.T) {
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, ProviderID: provider.ID, Status: models.StatusCompleted, Price: 100})
	api.add(models.ServiceOrder{ID: 2, ProviderID: provider.ID, Status: models.StatusCompleted, Price: 50.5})
	api.add(models.ServiceOrder{ID: 3, ProviderID: provider.ID, Status: models.StatusCancelled, Price: 999})
	api.add(models.ServiceOrder{ID: 4, ProviderID: provider.ID, Status: models.StatusPending, Price: 70})
	api.add(models.ServiceOrder{ID: 5, ProviderID: 99, Status: models.StatusCompleted, Price: 10})

	dash := NewProviderDashboard(api, signIn(t, provider), &recorder{})
	require.NoError(t, dash.Load(context.Background()))

	assert.InDelta(t, 150.5, dash.Earnings(), 0.001)
	orders := dash.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, uint(4), orders[0].ID)
}

func TestNewOrderNotice(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, ProviderID: provider.ID, Status: models.StatusPending})

	notes := &recorder{}
	dash := NewProviderDashboard(api, signIn(t, provider), notes)
	require.NoError(t, dash.Load(ctx))

	require.NoError(t, dash.refreshOrders(ctx, true))
	assert.False(t, notes.has(LevelInfo, "New order received!"))

	api.add(models.ServiceOrder{ID: 2, ProviderID: provider.ID, Status: models.StatusPending})
	require.NoError(t, dash.refreshOrders(ctx, true))
	assert.True(t, notes.has(LevelInfo, "New order received!"))
	assert.Len(t, dash.Orders(), 2)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	api := newFakeAPI()
	api.fail = true
	notes := &recorder{}

	dash := NewProviderDashboard(api, signIn(t, provider), notes)
	require.NoError(t, dash.Load(context.Background()))
	assert.Empty(t, dash.Orders())
	assert.Empty(t, dash.Reviews())
	assert.Nil(t, dash.Profile())
	assert.Positive(t, notes.count(LevelError))

	mine := NewMyOrders(api, signIn(t, customer), notes)
	require.NoError(t, mine.Load(context.Background()))
	assert.Empty(t, mine.Orders())
}

func TestPollKeepsListOnFailure(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, UserID: customer.ID, Status: models.StatusPending})
	notes := &recorder{}

	mine := NewMyOrders(api, signIn(t, customer), notes)
	require.NoError(t, mine.Load(ctx))

	api.fail = true
	require.NoError(t, mine.refresh(ctx, true))
	assert.Len(t, mine.Orders(), 1)
	assert.Zero(t, notes.count(LevelError))
}

func TestFinishRequiresPhotos(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, ProviderID: provider.ID, Status: models.StatusInProgress})
	notes := &recorder{}

	dash := NewProviderDashboard(api, signIn(t, provider), notes)
	require.NoError(t, dash.Load(ctx))

	assert.ErrorIs(t, dash.Finish(ctx, 1), ErrActionDisabled)
	assert.True(t, notes.has(LevelError, "Attach the before and after photos before finishing."))
	assert.Zero(t, api.count("update_order"))

	require.NoError(t, dash.AttachPhoto(ctx, 1, PhotoBefore, "before.jpg", []byte("x")))
	require.NoError(t, dash.AttachPhoto(ctx, 1, PhotoAfter, "after.jpg", []byte("y")))
	assert.Equal(t, "https://img.example.com/before.jpg", api.order(1).PhotoBefore)
	assert.Equal(t, models.StatusInProgress, api.order(1).Status)

	require.NoError(t, dash.Finish(ctx, 1))
	assert.Equal(t, models.StatusWaitingConfirmation, api.order(1).Status)
}

func TestAttachPhotoUploadFailure(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, ProviderID: provider.ID, Status: models.StatusInProgress})
	notes := &recorder{}

	dash := NewProviderDashboard(api, signIn(t, provider), notes)
	require.NoError(t, dash.Load(ctx))

	api.fail = true
	assert.ErrorIs(t, dash.AttachPhoto(ctx, 1, PhotoBefore, "before.jpg", nil), errBackend)
	assert.True(t, notes.has(LevelError, "Image upload failed."))
	assert.Empty(t, api.order(1).PhotoBefore)
}

func TestAgenda(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.providers = []models.ProviderListing{{ID: provider.ID, UserID: provider.ID, WorkingDays: "Mon,Wed"}}

	dash := NewProviderDashboard(api, signIn(t, provider), &recorder{})
	require.NoError(t, dash.Load(ctx))
	assert.Equal(t, []string{"Mon", "Wed"}, dash.WorkingDays())

	assert.ErrorIs(t, dash.ToggleDay("Funday"), ErrUnknownDay)
	require.NoError(t, dash.ToggleDay("Mon"))
	require.NoError(t, dash.ToggleDay("Fri"))
	require.NoError(t, dash.SaveAgenda(ctx))

	assert.Equal(t, map[string]string{"working_days": "Wed,Fri"}, api.patched["professional_profiles/7"])
	assert.Equal(t, "Wed,Fri", dash.Profile().WorkingDays)
}

func TestReviewAfterCompletion(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 9, UserID: customer.ID, ProviderID: provider.ID, Status: models.StatusWaitingConfirmation})
	notes := &recorder{}

	mine := NewMyOrders(api, signIn(t, customer), notes)
	require.NoError(t, mine.Load(ctx))

	_, err := mine.SubmitReview(ctx, 5, "")
	assert.ErrorIs(t, err, ErrNoReviewPending)

	require.NoError(t, mine.ConfirmCompletion(ctx, 9))
	prompt, ok := mine.ReviewPrompt()
	require.True(t, ok)
	assert.Equal(t, uint(9), prompt.ID)

	_, err = mine.SubmitReview(ctx, 0, "")
	assert.Error(t, err)
	assert.Zero(t, api.count("create_review"))

	review, err := mine.SubmitReview(ctx, 5, "   ")
	require.NoError(t, err)
	assert.Equal(t, DefaultReviewComment, review.Comment)
	assert.Equal(t, provider.ID, review.ProviderID)
	_, ok = mine.ReviewPrompt()
	assert.False(t, ok)
}

func TestRainAcknowledgement(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 4, UserID: customer.ID, ProviderID: provider.ID, Status: models.StatusAccepted})

	dash := NewProviderDashboard(api, signIn(t, provider), &recorder{})
	require.NoError(t, dash.Load(ctx))
	require.NoError(t, dash.ReportRain(ctx, 4))

	mine := NewMyOrders(api, signIn(t, customer), &recorder{})
	require.NoError(t, mine.Load(ctx))
	require.NoError(t, mine.AcknowledgeRain(ctx, 4))
	assert.Equal(t, models.StatusRainConfirmed, api.order(4).Status)
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.users[customer.Email] = customer
	api.users[root.Email] = root
	api.providers = []models.ProviderListing{
		{ID: 7, Name: "Bia", Status: models.ProfilePending},
		{ID: 8, Name: "Caio", Status: models.ProfileActive},
		{ID: 9, Name: "Duda", Status: models.ProfileActive},
	}
	sess := session.New(session.NewMemoryStore())
	notes := &recorder{}
	admin := NewAdmin(api, sess, notes)

	assert.ErrorIs(t, admin.Load(ctx), ErrNotSignedIn)
	assert.ErrorIs(t, admin.Login(ctx, customer.Email, "secret"), session.ErrNotAdmin)
	_, ok := sess.User()
	assert.False(t, ok)
	assert.True(t, notes.has(LevelError, "This account is not an administrator."))

	require.NoError(t, admin.Login(ctx, root.Email, "secret"))
	creds, ok := sess.Admin()
	require.True(t, ok)
	assert.Equal(t, "token-root@example.com", creds.Token)

	require.NoError(t, admin.Load(ctx))
	assert.Len(t, admin.Providers(), 3)
	assert.Equal(t, 2, admin.Counts()[models.ProfileActive])
	assert.Equal(t, 0, admin.Counts()[models.ProfileBlocked])

	assert.Error(t, admin.SetStatus(ctx, 7, "banned"))
	require.NoError(t, admin.SetStatus(ctx, 7, models.ProfileBlocked))
	assert.Equal(t, 1, admin.Counts()[models.ProfileBlocked])
	assert.Equal(t, 0, admin.Counts()[models.ProfilePending])

	require.NoError(t, admin.Logout())
	_, ok = sess.Admin()
	assert.False(t, ok)
	_, ok = sess.User()
	assert.False(t, ok)
}

func newBooking(t *testing.T, api *fakeAPI, notes Notifier) *Booking {
	t.Helper()
	api.providers = []models.ProviderListing{{
		ID: provider.ID, UserID: provider.ID, Name: provider.Name,
		Niche: "jardinagem", BasePrice: 90, WorkingDays: "Mon,Tue",
	}}
	b := NewBooking(api, signIn(t, customer), notes, provider.ID)
	b.now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local) }
	require.NoError(t, b.Load(context.Background()))
	require.NotNil(t, b.Provider())
	return b
}

func TestBookingSlots(t *testing.T) {
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, ProviderID: provider.ID, Date: "2026-10-20", Time: "08:00:00", Status: models.StatusAccepted})
	api.add(models.ServiceOrder{ID: 2, ProviderID: provider.ID, Date: "2026-10-20", Time: "14:00", Status: models.StatusCancelled})
	api.add(models.ServiceOrder{ID: 3, ProviderID: provider.ID, Date: "2026-10-21", Time: "08:00", Status: models.StatusWaitingClient})
	api.add(models.ServiceOrder{ID: 4, ProviderID: provider.ID, Date: "2026-10-21", Time: "14:00", Status: models.StatusInProgressAuthorized})
	api.add(models.ServiceOrder{ID: 5, ProviderID: provider.ID, Date: "2026-10-22", Time: "08:00", Status: models.StatusCancelledRain})
	b := newBooking(t, api, &recorder{})

	slots, err := b.Slots(context.Background(), "2026-10-20")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Occupied)
	assert.False(t, slots[1].Occupied)
	assert.False(t, slots[0].Passed)

	today, err := b.Slots(context.Background(), "2026-10-19")
	require.NoError(t, err)
	assert.True(t, today[0].Passed)
	assert.False(t, today[1].Passed)

	quoted, err := b.Slots(context.Background(), "2026-10-21")
	require.NoError(t, err)
	assert.True(t, quoted[0].Occupied, "a quoted order holds its slot")
	assert.True(t, quoted[1].Occupied, "an authorized order holds its slot")

	rained, err := b.Slots(context.Background(), "2026-10-22")
	require.NoError(t, err)
	assert.False(t, rained[0].Occupied)

	_, err = b.Slots(context.Background(), "20/10/2026")
	assert.Error(t, err)
}

func TestBook(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.add(models.ServiceOrder{ID: 1, ProviderID: provider.ID, Date: "2026-10-20", Time: "08:00", Status: models.StatusPending})
	notes := &recorder{}
	b := newBooking(t, api, notes)

	req := BookingRequest{Date: "2026-10-20", Time: "14:00", Address: "Rua A, 10", Description: "Trim the hedge"}

	_, err := b.Book(ctx, BookingRequest{Date: "2026-10-20", Time: "14:00"})
	assert.ErrorIs(t, err, ErrMissingFields)

	tooMany := req
	tooMany.Photos = []string{"a", "b", "c", "d"}
	_, err = b.Book(ctx, tooMany)
	assert.ErrorIs(t, err, ErrTooManyPhotos)

	sunday := req
	sunday.Date = "2026-10-25"
	_, err = b.Book(ctx, sunday)
	assert.ErrorIs(t, err, ErrDayUnavailable)

	taken := req
	taken.Time = "08:00"
	_, err = b.Book(ctx, taken)
	assert.ErrorIs(t, err, ErrSlotTaken)

	past := req
	past.Date, past.Time = "2026-10-19", "08:00"
	_, err = b.Book(ctx, past)
	assert.ErrorIs(t, err, ErrSlotPassed)

	req.Photos = []string{"https://img.example.com/hedge.jpg"}
	order, err := b.Book(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 90.0, order.Price)
	assert.Equal(t, "jardinagem", order.ServiceType)
	assert.Equal(t, customer.ID, order.UserID)
	assert.Equal(t, provider.ID, order.ProviderID)
	assert.Len(t, order.PhotosRequest, 1)
	assert.True(t, notes.has(LevelSuccess, "Request sent!"))
}

func TestBookingUnknownProvider(t *testing.T) {
	notes := &recorder{}
	b := NewBooking(newFakeAPI(), signIn(t, customer), notes, 404)
	require.NoError(t, b.Load(context.Background()))
	assert.Nil(t, b.Provider())
	assert.True(t, notes.has(LevelError, "Provider not found."))

	_, err := b.Book(context.Background(), BookingRequest{})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestPollingRejectsZeroInterval(t *testing.T) {
	mine := NewMyOrders(newFakeAPI(), signIn(t, customer), &recorder{})
	mine.interval = 0
	assert.ErrorIs(t, mine.Start(context.Background()), poller.ErrInvalidInterval)
	mine.Stop()
}

func TestDashboardPolling(t *testing.T) {
	api := newFakeAPI()
	dash := NewProviderDashboard(api, signIn(t, provider), &recorder{})
	dash.interval = 10 * time.Millisecond

	require.NoError(t, dash.Start(context.Background()))
	assert.Eventually(t, func() bool { return api.count("provider_orders") >= 3 }, time.Second, 5*time.Millisecond)
	dash.Stop()

	after := api.count("provider_orders")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, api.count("provider_orders"))
}
