package rating

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	bookingRepo "interviewhub/database/repository/booking"
	reviewRepo "interviewhub/database/repository/review"
	summaryRepo "interviewhub/database/repository/summary"
	"interviewhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeReviews struct {
	mu   sync.Mutex
	byID map[string]models.Review
	// afterList runs once the listing is taken, outside the lock.
	afterList func()
}

func (f *fakeReviews) Create(_ context.Context, r models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.ID == r.ID || existing.BookingID == r.BookingID {
			return reviewRepo.ErrDuplicate
		}
	}
	f.byID[r.ID] = r
	return nil
}

func (f *fakeReviews) GetByID(_ context.Context, id string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, reviewRepo.ErrNotFound
	}
	return &r, nil
}

func (f *fakeReviews) ListByInterviewer(_ context.Context, interviewerID string) ([]models.Review, error) {
	f.mu.Lock()
	var out []models.Review
	for _, r := range f.byID {
		if r.InterviewerID == interviewerID {
			out = append(out, r)
		}
	}
	f.mu.Unlock()
	if f.afterList != nil {
		f.afterList()
	}
	return out, nil
}

func (f *fakeReviews) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return reviewRepo.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSummaries struct {
	mu       sync.Mutex
	stored   map[string]models.InterviewerRatingSummary
	replaces int
	afterGet func()
}

func (f *fakeSummaries) Replace(_ context.Context, s models.InterviewerRatingSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces++
	f.stored[s.InterviewerID] = s
	return nil
}

func (f *fakeSummaries) Get(_ context.Context, id string) (*models.InterviewerRatingSummary, error) {
	f.mu.Lock()
	s, ok := f.stored[id]
	f.mu.Unlock()
	if f.afterGet != nil {
		f.afterGet()
	}
	if !ok {
		return nil, summaryRepo.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSummaries) get(id string) models.InterviewerRatingSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored[id]
}

// gate blocks the first caller until release is closed and signals reached
// when it gets there. Later callers pass through.
func gate() (hook func(), reached, release chan struct{}) {
	reached = make(chan struct{})
	release = make(chan struct{})
	var taken int32
	hook = func() {
		if atomic.CompareAndSwapInt32(&taken, 0, 1) {
			close(reached)
			<-release
		}
	}
	return hook, reached, release
}

func (f *fakeSummaries) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, id)
	return nil
}

type fakeBookings struct {
	byID     map[string]models.Booking
	reviewed map[string]bool
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBookings) MarkReviewed(_ context.Context, id string) error {
	f.reviewed[id] = true
	return nil
}

type fakeProfiles struct {
	average float64
	total   int
}

func (f *fakeProfiles) UpdateRating(_ context.Context, _ string, average float64, total int) error {
	f.average, f.total = average, total
	return nil
}

type fakeNotifier struct {
	pushes []models.ReviewPushPayload
}

func (f *fakeNotifier) EnqueueReviewPush(_ context.Context, p models.ReviewPushPayload) error {
	f.pushes = append(f.pushes, p)
	return nil
}

type fixture struct {
	svc       *Service
	reviews   *fakeReviews
	summaries *fakeSummaries
	bookings  *fakeBookings
	profiles  *fakeProfiles
	notifier  *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		reviews:   &fakeReviews{byID: map[string]models.Review{}},
		summaries: &fakeSummaries{stored: map[string]models.InterviewerRatingSummary{}},
		bookings: &fakeBookings{
			byID: map[string]models.Booking{
				"bk-1": {ID: "bk-1", InterviewerID: "iv-1", CandidateID: "cand-1", Status: models.BookingCompleted},
				"bk-2": {ID: "bk-2", InterviewerID: "iv-1", CandidateID: "cand-2", Status: models.BookingCompleted},
				"bk-3": {ID: "bk-3", InterviewerID: "iv-1", CandidateID: "cand-1", Status: models.BookingConfirmed},
			},
			reviewed: map[string]bool{},
		},
		profiles: &fakeProfiles{},
		notifier: &fakeNotifier{},
	}
	f.svc = NewService(f.reviews, f.summaries, f.bookings, f.profiles, zaptest.NewLogger(t))
	f.svc.Notifier = f.notifier
	f.svc.Now = func() time.Time { return fixedNow }
	return f
}

func TestSubmitReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 5, WouldRecommend: true})
	require.NoError(t, err)
	assert.Equal(t, "iv-1_cand-1_bk-1", review.ID)
	assert.True(t, f.bookings.reviewed["bk-1"])

	_, err = f.svc.SubmitReview(ctx, "cand-2", models.ReviewInput{BookingID: "bk-2", Rating: 3})
	require.NoError(t, err)

	summary, err := f.svc.GetSummary(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, 2, summary.TotalReviews)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 1}, summary.RatingDistribution)
	assert.Equal(t, 50.0, summary.RecommendationRate)

	assert.Equal(t, 4.0, f.profiles.average)
	assert.Equal(t, 2, f.profiles.total)
	assert.Len(t, f.notifier.pushes, 2)
}

func TestSubmitReviewDuplicateDoesNotRecompute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 5})
	require.NoError(t, err)
	require.Equal(t, 1, f.summaries.replaces)

	_, err = f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 1})
	assert.ErrorIs(t, err, ErrReviewExists)
	assert.Equal(t, "review already exists for this booking", err.Error())
	assert.Equal(t, 1, f.summaries.replaces)
	assert.Len(t, f.notifier.pushes, 1)

	summary, err := f.svc.GetSummary(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.AverageRating)
}

func TestSubmitReviewConcurrentSameBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 4})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrReviewExists)
	}
	assert.Equal(t, 1, succeeded)

	summary, err := f.svc.GetSummary(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalReviews)
}

func TestSubmitReviewRejections(t *testing.T) {
	tests := []struct {
		name        string
		candidateID string
		in          models.ReviewInput
		wantErr     error
	}{
		{"invalid rating", "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 9}, ErrInvalidRating},
		{"unknown booking", "cand-1", models.ReviewInput{BookingID: "nope", Rating: 4}, bookingRepo.ErrNotFound},
		{"not the owner", "cand-2", models.ReviewInput{BookingID: "bk-1", Rating: 4}, ErrNotBookingOwner},
		{"not completed", "cand-1", models.ReviewInput{BookingID: "bk-3", Rating: 4}, ErrBookingNotCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.SubmitReview(context.Background(), tt.candidateID, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.summaries.replaces)
		})
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 4, WouldRecommend: true})
	require.NoError(t, err)

	first, err := f.svc.Recompute(ctx, "iv-1")
	require.NoError(t, err)
	second, err := f.svc.Recompute(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
}

func TestDeleteReviewRecomputes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 5})
	require.NoError(t, err)
	second, err := f.svc.SubmitReview(ctx, "cand-2", models.ReviewInput{BookingID: "bk-2", Rating: 2})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteReview(ctx, first.ID))
	summary, err := f.svc.GetSummary(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, summary.AverageRating)
	assert.Equal(t, 1, summary.TotalReviews)

	require.NoError(t, f.svc.DeleteReview(ctx, second.ID))
	_, err = f.svc.GetSummary(ctx, "iv-1")
	assert.ErrorIs(t, err, ErrNoReviews)
	assert.Equal(t, 0.0, f.profiles.average)
	assert.Equal(t, 0, f.profiles.total)

	assert.ErrorIs(t, f.svc.DeleteReview(ctx, second.ID), ErrReviewNotFound)
}

func TestGetSummaryUsesCache(t *testing.T) {
	f := newFixture(t)
	cache, mr := setupCache(t)
	f.svc.Cache = cache
	ctx := context.Background()

	_, err := f.svc.GetSummary(ctx, "iv-1")
	assert.ErrorIs(t, err, ErrNoReviews)
	assert.True(t, mr.Exists("rating:summary:iv-1"))

	_, err = f.svc.GetSummary(ctx, "iv-1")
	assert.ErrorIs(t, err, ErrNoReviews)

	_, err = f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 4})
	require.NoError(t, err)

	// Served from cache even when the store entry is gone.
	delete(f.summaries.stored, "iv-1")
	cached, err := f.svc.GetSummary(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, cached.AverageRating)
}

func TestConcurrentRecomputeKeepsNewestReviewSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hook, reached, release := gate()
	f.reviews.afterList = hook

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 5})
		done <- err
	}()

	// The first submission holds a listing without bk-2's review.
	<-reached
	_, err := f.svc.SubmitReview(ctx, "cand-2", models.ReviewInput{BookingID: "bk-2", Rating: 1})
	require.NoError(t, err)
	require.Equal(t, 2, f.summaries.get("iv-1").TotalReviews)

	close(release)
	require.NoError(t, <-done)

	stored := f.summaries.get("iv-1")
	assert.Equal(t, 2, stored.TotalReviews)
	assert.Equal(t, 3.0, stored.AverageRating)
	assert.Equal(t, 2, f.profiles.total)
}

func TestStaleCacheFillDoesNotOverwriteRecompute(t *testing.T) {
	f := newFixture(t)
	cache, mr := setupCache(t)
	f.svc.Cache = cache
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, "cand-1", models.ReviewInput{BookingID: "bk-1", Rating: 4})
	require.NoError(t, err)
	mr.Del("rating:summary:iv-1")

	hook, reached, release := gate()
	f.summaries.afterGet = hook
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.GetSummary(ctx, "iv-1")
		done <- err
	}()

	// The reader has the one-review summary in hand when the second review lands.
	<-reached
	_, err = f.svc.SubmitReview(ctx, "cand-2", models.ReviewInput{BookingID: "bk-2", Rating: 2})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	summary, err := f.svc.GetSummary(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalReviews)
	assert.Equal(t, 3.0, summary.AverageRating)
}
