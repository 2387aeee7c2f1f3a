package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)

func newTestService(t *testing.T) (*Service, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo).WithClock(func() time.Time { return fixedNow })
	return service, mockRepo
}

func intPtr(i int) *int { return &i }

func TestService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		page  int
		limit int
		want  Query
	}{
		{name: "no pagination", page: 0, limit: 0, want: Query{}},
		{name: "only page", page: 2, limit: 0, want: Query{}},
		{name: "only limit", page: 0, limit: 5, want: Query{}},
		{name: "first page", page: 1, limit: 5, want: Query{Skip: 0, Limit: 5}},
		{name: "third page", page: 3, limit: 10, want: Query{Skip: 20, Limit: 10}},
		{name: "negative page", page: -1, limit: 10, want: Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo := newTestService(t)
			mockRepo.EXPECT().Find(ctx, tt.want).Return([]Book{}, nil)

			_, err := service.List(ctx, tt.page, tt.limit)
			assert.NoError(t, err)
		})
	}
}

func TestService_SearchByCategory(t *testing.T) {
	ctx := context.Background()
	service, mockRepo := newTestService(t)

	category := "fantasy"
	mockRepo.EXPECT().Find(ctx, Query{Category: &category}).Return([]Book{{ISBN: "1"}}, nil)

	books, err := service.SearchByCategory(ctx, "fantasy")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestService_Sort(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid field does not query", func(t *testing.T) {
		service, _ := newTestService(t)
		_, err := service.Sort(ctx, "invalid", "asc")
		assert.ErrorIs(t, err, ErrInvalidSortField)
	})

	orders := map[string]bool{"asc": false, "": false, "desc": true, "DESC": false, "sideways": false}
	for order, desc := range orders {
		t.Run("order "+order, func(t *testing.T) {
			service, mockRepo := newTestService(t)
			mockRepo.EXPECT().
				Find(ctx, Query{Sort: &Sort{Field: SortByYear, Desc: desc}}).
				Return([]Book{}, nil)

			_, err := service.Sort(ctx, "year", order)
			assert.NoError(t, err)
		})
	}
}

func TestService_Filter(t *testing.T) {
	ctx := context.Background()
	service, mockRepo := newTestService(t)

	mockRepo.EXPECT().Find(ctx, Query{Author: "Tolkien", Year: intPtr(1954)}).Return([]Book{}, nil)
	_, err := service.Filter(ctx, "Tolkien", intPtr(1954))
	assert.NoError(t, err)

	mockRepo.EXPECT().Find(ctx, Query{}).Return([]Book{}, nil)
	_, err = service.Filter(ctx, "", nil)
	assert.NoError(t, err)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		in := validCreateInput()
		want := Book{
			ISBN:      in.ISBN,
			Title:     in.Title,
			Author:    in.Author,
			Year:      in.Year,
			Category:  in.Category,
			CreatedAt: fixedNow.Truncate(time.Millisecond),
		}

		gomock.InOrder(
			mockRepo.EXPECT().GetByISBN(ctx, in.ISBN).Return(Book{}, ErrNotFound),
			mockRepo.EXPECT().Insert(ctx, want).Return(nil),
		)

		got, err := service.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Nil(t, got.UpdatedAt)
	})

	t.Run("invalid data never reaches the store", func(t *testing.T) {
		service, _ := newTestService(t)
		in := validCreateInput()
		in.Year = 1899

		_, err := service.Create(ctx, in)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		in := validCreateInput()
		mockRepo.EXPECT().GetByISBN(ctx, in.ISBN).Return(Book{ISBN: in.ISBN}, nil)

		_, err := service.Create(ctx, in)
		assert.ErrorIs(t, err, ErrDuplicateISBN)
	})

	t.Run("duplicate detected by the store", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		in := validCreateInput()
		mockRepo.EXPECT().GetByISBN(ctx, in.ISBN).Return(Book{}, ErrNotFound)
		mockRepo.EXPECT().Insert(ctx, gomock.Any()).Return(ErrDuplicateISBN)

		_, err := service.Create(ctx, in)
		assert.ErrorIs(t, err, ErrDuplicateISBN)
	})

	t.Run("lookup failure", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		in := validCreateInput()
		mockRepo.EXPECT().GetByISBN(ctx, in.ISBN).Return(Book{}, context.DeadlineExceeded)

		_, err := service.Create(ctx, in)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	in := UpdateInput{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937, Category: "Fantasy"}

	t.Run("success", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		changes := Changes{
			Title:     in.Title,
			Author:    in.Author,
			Year:      in.Year,
			Category:  in.Category,
			UpdatedAt: fixedNow.Truncate(time.Millisecond),
		}
		updatedAt := changes.UpdatedAt
		stored := Book{ISBN: "123", Title: in.Title, Author: in.Author, Year: in.Year, Category: in.Category, UpdatedAt: &updatedAt}
		mockRepo.EXPECT().Update(ctx, "123", changes).Return(stored, nil)

		got, err := service.Update(ctx, "123", in)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("not found", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		mockRepo.EXPECT().Update(ctx, "missing", gomock.Any()).Return(Book{}, ErrNotFound)

		_, err := service.Update(ctx, "missing", in)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid data", func(t *testing.T) {
		service, _ := newTestService(t)
		bad := in
		bad.Category = ""

		_, err := service.Update(ctx, "123", bad)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	service, mockRepo := newTestService(t)

	mockRepo.EXPECT().Delete(ctx, "123").Return(ErrNotFound)
	assert.ErrorIs(t, service.Delete(ctx, "123"), ErrNotFound)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection reports only the count", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		mockRepo.EXPECT().Stats(ctx).Return(Stats{OldestBook: intPtr(0), NewestBook: intPtr(0)}, nil)

		st, err := service.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, Stats{}, st)
	})

	t.Run("year range", func(t *testing.T) {
		service, mockRepo := newTestService(t)
		want := Stats{TotalBooks: 3, OldestBook: intPtr(1990), NewestBook: intPtr(2010)}
		mockRepo.EXPECT().Stats(ctx).Return(want, nil)

		st, err := service.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, st)
	})
}
