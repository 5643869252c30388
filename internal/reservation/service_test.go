package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"lessonbook/internal/lesson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Book(ctx context.Context, r *Reservation) (*Reservation, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

// Transition runs guard against the reservation given as the first return
// value, mirroring the locked read in the real repository.
func (m *MockRepository) Transition(ctx context.Context, id int, next Status, feedback *string, actorID int, guard Guard) (*TransitionResult, error) {
	args := m.Called(ctx, id, next, feedback, actorID)
	if cur, ok := args.Get(0).(*Reservation); ok && guard != nil {
		if err := guard(cur); err != nil {
			return nil, err
		}
	}
	if args.Get(1) == nil {
		return nil, args.Error(2)
	}
	return args.Get(1).(*TransitionResult), args.Error(2)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int, status Status) ([]ReservationDetail, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]ReservationDetail), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context, status Status) ([]ReservationDetail, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]ReservationDetail), args.Error(1)
}

func (m *MockRepository) ListForCoach(ctx context.Context, coachID int, from, to time.Time) ([]Reservation, error) {
	args := m.Called(ctx, coachID, from, to)
	return args.Get(0).([]Reservation), args.Error(1)
}

type MockLessonRepo struct {
	mock.Mock
}

func (m *MockLessonRepo) Create(ctx context.Context, req lesson.LessonRequest) (*lesson.Lesson, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*lesson.Lesson), args.Error(1)
}

func (m *MockLessonRepo) GetByID(ctx context.Context, id int) (*lesson.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lesson.Lesson), args.Error(1)
}

func (m *MockLessonRepo) GetDetail(ctx context.Context, id int) (*lesson.LessonDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*lesson.LessonDetail), args.Error(1)
}

func (m *MockLessonRepo) Update(ctx context.Context, id int, req lesson.LessonRequest) (*lesson.Lesson, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(*lesson.Lesson), args.Error(1)
}

func (m *MockLessonRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLessonRepo) Search(ctx context.Context, by, q string, cursor, limit int) ([]lesson.LessonDetail, error) {
	args := m.Called(ctx, by, q, cursor, limit)
	return args.Get(0).([]lesson.LessonDetail), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateCoach(ctx context.Context, coachID int) error {
	return m.Called(ctx, coachID).Error(0)
}

var (
	fixedNow    = time.Date(2024, 6, 1, 9, 0, 0, 0, kst)
	lessonStart = time.Date(2024, 6, 10, 10, 0, 0, 0, kst)
)

func newTestService(repo *MockRepository, lessons *MockLessonRepo, cache *MockInvalidator) *service {
	return &service{repo: repo, lessons: lessons, cache: cache, now: func() time.Time { return fixedNow }}
}

func TestService_Create_ValidationOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"end before start", lessonStart, lessonStart.Add(-time.Hour), ErrInvalidTimeRange},
		{"zero length", lessonStart, lessonStart, ErrInvalidTimeRange},
		{"off-step duration", lessonStart, lessonStart.Add(50 * time.Minute), ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, lessons := new(MockRepository), new(MockLessonRepo)
			svc := newTestService(repo, lessons, nil)

			_, err := svc.Create(ctx, 2, CreateRequest{LessonID: 999, StartAt: tt.start, EndAt: tt.end})
			assert.ErrorIs(t, err, tt.wantErr)
			lessons.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Book", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_LessonNotFound(t *testing.T) {
	ctx := context.Background()
	repo, lessons := new(MockRepository), new(MockLessonRepo)
	lessons.On("GetByID", ctx, 999).Return(nil, lesson.ErrLessonNotFound)

	_, err := newTestService(repo, lessons, nil).Create(ctx, 2, CreateRequest{
		LessonID: 999, StartAt: lessonStart, EndAt: lessonStart.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrLessonNotFound)
	repo.AssertNotCalled(t, "Book", mock.Anything, mock.Anything)
}

func TestService_Create_BooksForLessonCoach(t *testing.T) {
	ctx := context.Background()
	repo, lessons, cache := new(MockRepository), new(MockLessonRepo), new(MockInvalidator)
	goal := GoalHard

	lessons.On("GetByID", ctx, 10).Return(&lesson.Lesson{ID: 10, CoachID: 3, BranchID: 4}, nil)
	repo.On("Book", ctx, mock.MatchedBy(func(r *Reservation) bool {
		return r.LessonID == 10 && r.UserID == 2 && r.CoachID == 3 && r.BranchID == 4 &&
			r.StartAt.Equal(lessonStart) && r.Goal != nil && *r.Goal == GoalHard
	})).Return(&Reservation{ID: 77, CoachID: 3, StartAt: lessonStart, EndAt: lessonStart.Add(time.Hour), Status: StatusConfirmed}, nil)
	cache.On("InvalidateCoach", ctx, 3).Return(nil)

	res, err := newTestService(repo, lessons, cache).Create(ctx, 2, CreateRequest{
		LessonID: 10, StartAt: lessonStart, EndAt: lessonStart.Add(time.Hour), Goal: &goal,
	})
	require.NoError(t, err)
	assert.Equal(t, 77, res.ID)
	cache.AssertExpectations(t)
}

func TestService_Create_ConflictSkipsInvalidation(t *testing.T) {
	ctx := context.Background()
	repo, lessons, cache := new(MockRepository), new(MockLessonRepo), new(MockInvalidator)

	lessons.On("GetByID", ctx, 10).Return(&lesson.Lesson{ID: 10, CoachID: 3, BranchID: 4}, nil)
	repo.On("Book", ctx, mock.Anything).Return(nil, ErrTimeConflict)

	_, err := newTestService(repo, lessons, cache).Create(ctx, 2, CreateRequest{
		LessonID: 10, StartAt: lessonStart, EndAt: lessonStart.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
	cache.AssertNotCalled(t, "InvalidateCoach", mock.Anything, mock.Anything)
}

func TestService_Cancel_Guard(t *testing.T) {
	ctx := context.Background()

	own := func(status Status, start time.Time) *Reservation {
		return &Reservation{ID: 77, UserID: 2, CoachID: 3, Status: status, StartAt: start, EndAt: start.Add(time.Hour)}
	}

	tests := []struct {
		name    string
		current *Reservation
		wantErr error
	}{
		{"someone else's", &Reservation{ID: 77, UserID: 9, Status: StatusConfirmed, StartAt: lessonStart}, ErrForbidden},
		{"already canceled", own(StatusCanceled, lessonStart), ErrAlreadyCanceled},
		{"attended", own(StatusAttended, lessonStart), ErrCannotCancel},
		{"holiday", own(StatusHoliday, lessonStart), ErrCannotCancel},
		{"started", own(StatusConfirmed, fixedNow), ErrPastReservation},
		{"in the past", own(StatusConfirmed, fixedNow.Add(-time.Hour)), ErrPastReservation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("Transition", ctx, 77, StatusCanceled, (*string)(nil), 2).Return(tt.current, nil, nil)

			_, err := newTestService(repo, new(MockLessonRepo), nil).Cancel(ctx, 2, 77)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Cancel_Success(t *testing.T) {
	ctx := context.Background()
	repo, cache := new(MockRepository), new(MockInvalidator)

	current := &Reservation{ID: 77, UserID: 2, CoachID: 3, Status: StatusPending, StartAt: lessonStart, EndAt: lessonStart.Add(time.Hour)}
	canceled := *current
	canceled.Status = StatusCanceled

	repo.On("Transition", ctx, 77, StatusCanceled, (*string)(nil), 2).
		Return(current, &TransitionResult{Reservation: &canceled, Previous: StatusPending, Refunded: true}, nil)
	cache.On("InvalidateCoach", ctx, 3).Return(errors.New("redis down"))

	res, err := newTestService(repo, new(MockLessonRepo), cache).Cancel(ctx, 2, 77)
	require.NoError(t, err, "cache failures must not fail the cancellation")
	assert.Equal(t, StatusCanceled, res.Status)
	cache.AssertExpectations(t)
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects transitions outside the lifecycle", func(t *testing.T) {
		repo := new(MockRepository)
		current := &Reservation{ID: 77, Status: StatusAttended}
		repo.On("Transition", ctx, 77, StatusConfirmed, (*string)(nil), 1).Return(current, nil, nil)

		_, err := newTestService(repo, new(MockLessonRepo), nil).
			UpdateStatus(ctx, 1, 77, UpdateStatusRequest{Status: StatusConfirmed})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("same status only records feedback", func(t *testing.T) {
		repo, cache := new(MockRepository), new(MockInvalidator)
		feedback := "great form"
		current := &Reservation{ID: 77, CoachID: 3, Status: StatusAttended}
		updated := *current
		updated.Feedback = &feedback

		repo.On("Transition", ctx, 77, StatusAttended, &feedback, 1).
			Return(current, &TransitionResult{Reservation: &updated, Previous: StatusAttended}, nil)

		res, err := newTestService(repo, new(MockLessonRepo), cache).
			UpdateStatus(ctx, 1, 77, UpdateStatusRequest{Status: StatusAttended, Feedback: &feedback})
		require.NoError(t, err)
		assert.Equal(t, feedback, *res.Feedback)
		cache.AssertNotCalled(t, "InvalidateCoach", mock.Anything, mock.Anything)
	})

	t.Run("admin cancel invalidates availability", func(t *testing.T) {
		repo, cache := new(MockRepository), new(MockInvalidator)
		current := &Reservation{ID: 77, CoachID: 3, Status: StatusHoliday, StartAt: lessonStart, EndAt: lessonStart.Add(time.Hour)}
		canceled := *current
		canceled.Status = StatusCanceled

		repo.On("Transition", ctx, 77, StatusCanceled, (*string)(nil), 1).
			Return(current, &TransitionResult{Reservation: &canceled, Previous: StatusHoliday, Refunded: true}, nil)
		cache.On("InvalidateCoach", ctx, 3).Return(nil)

		_, err := newTestService(repo, new(MockLessonRepo), cache).
			UpdateStatus(ctx, 1, 77, UpdateStatusRequest{Status: StatusCanceled})
		require.NoError(t, err)
		cache.AssertExpectations(t)
	})
}
