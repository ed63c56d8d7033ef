package services

import (
	"context"
	"sync"
	"testing"

	"blackmarket-backend/models"

	"github.com/google/uuid"
)

func setupImageTest(t *testing.T) (*ProductImageService, models.Product) {
	t.Helper()
	db := freshDB(t)
	c := seedCategory(t, db, "Electronics", "electronics", nil)
	p := seedProduct(t, db, c.ID, "Phone", "phone", "199.00")
	return NewProductImageService(db), p
}

func TestFirstImageBecomesPrimary(t *testing.T) {
	s, p := setupImageTest(t)

	first := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg"})
	if !first.IsPrimary {
		t.Error("first image should default to primary")
	}

	second := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "b.jpg", DisplayOrder: 1})
	if second.IsPrimary {
		t.Error("second image should not default to primary")
	}
	if n := primaryCount(t, s.DB, p.ID); n != 1 {
		t.Errorf("expected 1 primary, got %d", n)
	}
}

func TestFirstImageExplicitlyNotPrimary(t *testing.T) {
	s, p := setupImageTest(t)

	img := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg", IsPrimary: boolPtr(false)})
	if img.IsPrimary {
		t.Error("explicit is_primary=false should be honored")
	}
	if n := primaryCount(t, s.DB, p.ID); n != 0 {
		t.Errorf("expected no primary, got %d", n)
	}
}

func TestCreatePrimaryDemotesSiblings(t *testing.T) {
	s, p := setupImageTest(t)
	a := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg"})

	b := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "b.jpg", IsPrimary: boolPtr(true)})
	if !b.IsPrimary {
		t.Fatal("b should be primary")
	}

	got, err := s.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsPrimary {
		t.Error("a should have been demoted")
	}
	if n := primaryCount(t, s.DB, p.ID); n != 1 {
		t.Errorf("expected 1 primary, got %d", n)
	}
}

func TestCreateImageUnknownProduct(t *testing.T) {
	s, _ := setupImageTest(t)

	_, err := s.Create(context.Background(), models.ProductImageInput{ProductID: uuid.New(), ImageURL: "a.jpg"})
	if !IsValidation(err) || err.Error() != "Product not found" {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestImageScenarioPromotionOnDelete(t *testing.T) {
	s, p := setupImageTest(t)
	ctx := context.Background()

	a := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg", DisplayOrder: 0})
	b := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "b.jpg", DisplayOrder: 1})

	if _, err := s.Update(ctx, b.ID, models.ProductImagePatch{IsPrimary: models.Some(true)}); err != nil {
		t.Fatal(err)
	}
	gotA, _ := s.Get(ctx, a.ID)
	if gotA.IsPrimary {
		t.Fatal("a should be demoted after b became primary")
	}

	removed, ok, err := s.Delete(ctx, b.ID)
	if err != nil || !ok {
		t.Fatalf("delete b: %v, %v", ok, err)
	}
	if removed.ID != b.ID || !removed.IsPrimary {
		t.Errorf("expected removed primary b, got %+v", removed)
	}

	gotA, _ = s.Get(ctx, a.ID)
	if !gotA.IsPrimary {
		t.Error("a should be promoted after primary b was deleted")
	}
}

func TestDeletePrimaryPromotesLowestDisplayOrder(t *testing.T) {
	s, p := setupImageTest(t)
	ctx := context.Background()

	primary := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "p.jpg", DisplayOrder: 0})
	late := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "late.jpg", DisplayOrder: 5})
	early := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "early.jpg", DisplayOrder: 2})

	if _, _, err := s.Delete(ctx, primary.ID); err != nil {
		t.Fatal(err)
	}

	gotEarly, _ := s.Get(ctx, early.ID)
	gotLate, _ := s.Get(ctx, late.ID)
	if !gotEarly.IsPrimary || gotLate.IsPrimary {
		t.Errorf("expected early promoted, got early=%v late=%v", gotEarly.IsPrimary, gotLate.IsPrimary)
	}
}

func TestDeleteNonPrimaryPromotesNothing(t *testing.T) {
	s, p := setupImageTest(t)
	ctx := context.Background()

	a := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg"})
	b := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "b.jpg", DisplayOrder: 1})

	if _, ok, err := s.Delete(ctx, b.ID); err != nil || !ok {
		t.Fatalf("delete b: %v, %v", ok, err)
	}
	gotA, _ := s.Get(ctx, a.ID)
	if !gotA.IsPrimary {
		t.Error("a should still be primary")
	}
}

func TestDeleteLastImageLeavesEmptySet(t *testing.T) {
	s, p := setupImageTest(t)
	ctx := context.Background()

	a := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg"})
	if _, ok, err := s.Delete(ctx, a.ID); err != nil || !ok {
		t.Fatalf("delete: %v, %v", ok, err)
	}

	images, err := s.ListForProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 0 {
		t.Errorf("expected empty set, got %d", len(images))
	}
}

func TestDeleteImageMissing(t *testing.T) {
	s, _ := setupImageTest(t)

	img, ok, err := s.Delete(context.Background(), uuid.New())
	if err != nil || ok || img != nil {
		t.Errorf("expected nil, false, nil; got %v, %v, %v", img, ok, err)
	}
}

func TestUpdateDemoteDoesNotPromote(t *testing.T) {
	s, p := setupImageTest(t)
	ctx := context.Background()

	a := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg"})
	mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "b.jpg", DisplayOrder: 1})

	updated, err := s.Update(ctx, a.ID, models.ProductImagePatch{IsPrimary: models.Some(false)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsPrimary {
		t.Error("a should be demoted")
	}
	if n := primaryCount(t, s.DB, p.ID); n != 0 {
		t.Errorf("demotion by update should not promote another image, got %d primaries", n)
	}
}

func TestUpdateImagePartialFields(t *testing.T) {
	s, p := setupImageTest(t)
	ctx := context.Background()

	a := mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg", AltText: strPtr("front")})

	updated, err := s.Update(ctx, a.ID, models.ProductImagePatch{DisplayOrder: models.Some(3)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.DisplayOrder != 3 {
		t.Errorf("expected display order 3, got %d", updated.DisplayOrder)
	}
	if updated.ImageURL != "a.jpg" || updated.AltText == nil || *updated.AltText != "front" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if !updated.IsPrimary {
		t.Error("primary flag should be untouched")
	}

	updated, err = s.Update(ctx, a.ID, models.ProductImagePatch{AltText: models.Some[*string](nil)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.AltText != nil {
		t.Errorf("expected alt text cleared, got %v", *updated.AltText)
	}
}

func TestUpdateImageMissing(t *testing.T) {
	s, _ := setupImageTest(t)

	img, err := s.Update(context.Background(), uuid.New(), models.ProductImagePatch{IsPrimary: models.Some(true)})
	if err != nil || img != nil {
		t.Errorf("expected nil, nil; got %v, %v", img, err)
	}
}

func TestListForProductOrdersByDisplayOrder(t *testing.T) {
	s, p := setupImageTest(t)

	mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "c.jpg", DisplayOrder: 2})
	mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg", DisplayOrder: 0})
	mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "b.jpg", DisplayOrder: 1})

	images, err := s.ListForProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.jpg", "b.jpg", "c.jpg"}
	for i, img := range images {
		if img.ImageURL != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], img.ImageURL)
		}
	}
}

func TestOnePrimaryIndexRejectsSecondPrimary(t *testing.T) {
	s, p := setupImageTest(t)
	mustCreateImage(t, s, models.ProductImageInput{ProductID: p.ID, ImageURL: "a.jpg"})

	raw := models.ProductImage{ProductID: p.ID, ImageURL: "b.jpg", IsPrimary: true}
	if err := s.DB.Create(&raw).Error; err == nil {
		t.Error("store should reject a second primary image")
	}
}

// TestSerializedPrimaryCreatesKeepOnePrimary is a smoke test: the shared
// SQLite database has one connection, so the pool serializes the goroutines
// and the row lock is never contended. TestPostgresConcurrentPrimaryCreates
// covers real contention.
func TestSerializedPrimaryCreatesKeepOnePrimary(t *testing.T) {
	s, p := setupImageTest(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(order int) {
			defer wg.Done()
			_, err := s.Create(context.Background(), models.ProductImageInput{
				ProductID:    p.ID,
				ImageURL:     "img.jpg",
				IsPrimary:    boolPtr(true),
				DisplayOrder: order,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("create failed: %v", err)
		}
	}
	if n := primaryCount(t, s.DB, p.ID); n != 1 {
		t.Errorf("expected exactly 1 primary, got %d", n)
	}
}
