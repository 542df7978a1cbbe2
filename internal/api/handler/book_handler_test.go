package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/ports"
)

type stubBookService struct {
	createFn        func(ctx context.Context, input ports.CreateBookInput) (*domain.BookDetail, error)
	updateFn        func(ctx context.Context, input ports.UpdateBookInput) error
	deleteFn        func(ctx context.Context, id int64) error
	listFn          func(ctx context.Context, titleFilter string) ([]domain.BookListing, error)
	getFn           func(ctx context.Context, id int64) (*domain.BookDetail, error)
	listAvailableFn func(ctx context.Context) ([]domain.BookRef, error)
}

func (s *stubBookService) Create(ctx context.Context, input ports.CreateBookInput) (*domain.BookDetail, error) {
	return s.createFn(ctx, input)
}

func (s *stubBookService) Update(ctx context.Context, input ports.UpdateBookInput) error {
	return s.updateFn(ctx, input)
}

func (s *stubBookService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubBookService) List(ctx context.Context, titleFilter string) ([]domain.BookListing, error) {
	return s.listFn(ctx, titleFilter)
}

func (s *stubBookService) Get(ctx context.Context, id int64) (*domain.BookDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubBookService) ListAvailable(ctx context.Context) ([]domain.BookRef, error) {
	return s.listAvailableFn(ctx)
}

func TestBookHandler_Create_Success(t *testing.T) {
	stub := &stubBookService{
		createFn: func(_ context.Context, input ports.CreateBookInput) (*domain.BookDetail, error) {
			if input.Title != "Dune" || len(input.AuthorIDs) != 1 || input.AuthorIDs[0] != 2 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.BookDetail{
				Book:      domain.Book{ID: 1, Title: input.Title, ISBN: input.ISBN, Year: input.Year, Available: true},
				Authors:   "Frank Herbert",
				AuthorIDs: input.AuthorIDs,
			}, nil
		},
	}
	flashes := newStubFlashStore()
	h := NewBookHandler(stub, flashes)

	c, rec := newTestContext(t, http.MethodPost, "/v1/books",
		`{"title":"Dune","isbn":"9780441013593","publication_year":1965,"author_ids":[2]}`)
	c.Set("session", &domain.Session{ID: "sid-1", Role: domain.RoleAdmin})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["title"] != "Dune" || resp["available"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if flash, ok := flashes.flashes["sid-1"]; !ok || flash.Kind != "success" {
		t.Fatalf("expected success flash, got %+v", flashes.flashes)
	}
}

func TestBookHandler_Create_MissingAuthors(t *testing.T) {
	stub := &stubBookService{
		createFn: func(_ context.Context, _ ports.CreateBookInput) (*domain.BookDetail, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewBookHandler(stub, newStubFlashStore())

	c, _ := newTestContext(t, http.MethodPost, "/v1/books",
		`{"title":"Dune","isbn":"9780441013593","publication_year":1965,"author_ids":[]}`)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %v", err)
	}
}

func TestBookHandler_Create_DuplicateISBN(t *testing.T) {
	stub := &stubBookService{
		createFn: func(_ context.Context, _ ports.CreateBookInput) (*domain.BookDetail, error) {
			return nil, domain.ErrDuplicateISBN
		},
	}
	h := NewBookHandler(stub, newStubFlashStore())

	c, _ := newTestContext(t, http.MethodPost, "/v1/books",
		`{"title":"Dune","isbn":"9780441013593","publication_year":1965,"author_ids":[2]}`)

	if err := h.Create(c); !errors.Is(err, domain.ErrDuplicateISBN) {
		t.Fatalf("expected ErrDuplicateISBN, got %v", err)
	}
}

func TestBookHandler_List_PassesTitleFilter(t *testing.T) {
	stub := &stubBookService{
		listFn: func(_ context.Context, titleFilter string) ([]domain.BookListing, error) {
			if titleFilter != "dune" {
				t.Fatalf("unexpected filter: %q", titleFilter)
			}
			return []domain.BookListing{
				{Book: domain.Book{ID: 1, Title: "Dune"}, Authors: "Frank Herbert"},
			}, nil
		},
	}
	h := NewBookHandler(stub, newStubFlashStore())

	c, rec := newTestContext(t, http.MethodGet, "/v1/books?title=dune", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var books []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(books) != 1 || books[0]["authors"] != "Frank Herbert" {
		t.Fatalf("unexpected books: %+v", books)
	}
}

func TestBookHandler_Delete_BookOnLoan(t *testing.T) {
	stub := &stubBookService{
		deleteFn: func(_ context.Context, id int64) error {
			if id != 4 {
				t.Fatalf("unexpected id: %d", id)
			}
			return domain.ErrBookOnLoan
		},
	}
	h := NewBookHandler(stub, newStubFlashStore())

	c, _ := newTestContext(t, http.MethodDelete, "/v1/books/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Delete(c); !errors.Is(err, domain.ErrBookOnLoan) {
		t.Fatalf("expected ErrBookOnLoan, got %v", err)
	}
}

func TestBookHandler_Get_InvalidID(t *testing.T) {
	stub := &stubBookService{
		getFn: func(_ context.Context, _ int64) (*domain.BookDetail, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewBookHandler(stub, newStubFlashStore())

	c, _ := newTestContext(t, http.MethodGet, "/v1/books/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %v", err)
	}
}
