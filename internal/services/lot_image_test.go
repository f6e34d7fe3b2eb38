package services

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/imaging"
)

func readStored(t *testing.T, f *fixture, key string) []byte {
	t.Helper()
	rc, err := f.media.Open(f.ctx, key)
	if err != nil {
		t.Fatalf("open %s: %v", key, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return b
}

func TestUploadStoresOriginalAndThumbnail(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 1000)
	data := pngBytes(t, 900, 600)

	img, err := f.images.Upload(as(staff), lot.ID, ImageUpload{Filename: "water lilies.png", Data: data, IsPrimary: true})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(img.StorageKey, "lots/"+lot.ID.String()+"_") || !strings.HasSuffix(img.StorageKey, "water_lilies.png") {
		t.Fatalf("storage key: got=%s", img.StorageKey)
	}
	if img.ImageURL != "/uploads/"+img.StorageKey {
		t.Fatalf("image url: got=%s", img.ImageURL)
	}
	if !bytes.Equal(readStored(t, f, img.StorageKey), data) {
		t.Fatalf("stored original differs from upload")
	}
	if img.ThumbnailKey == nil || img.ThumbnailURL == nil {
		t.Fatalf("thumbnail: want stored got nil")
	}
	w, h, err := imaging.Dimensions(readStored(t, f, *img.ThumbnailKey))
	if err != nil {
		t.Fatalf("thumbnail decode: %v", err)
	}
	if w != 300 || h != 200 {
		t.Fatalf("thumbnail size: want=300x200 got=%dx%d", w, h)
	}
	if img.DisplayOrder != 0 || !img.IsPrimary {
		t.Fatalf("first image: order=%d primary=%v", img.DisplayOrder, img.IsPrimary)
	}
}

func TestUploadPrimaryAndOrdering(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 1000)
	up := func(name string, primary bool, order *int) *types.LotImage {
		t.Helper()
		img, err := f.images.Upload(as(staff), lot.ID, ImageUpload{Filename: name, Data: pngBytes(t, 40, 40), IsPrimary: primary, DisplayOrder: order})
		if err != nil {
			t.Fatalf("Upload %s: %v", name, err)
		}
		return img
	}
	first := up("a.png", true, nil)
	second := up("b.png", false, nil)
	third := up("c.png", true, ptr(7))
	dup := up("a.png", false, nil)

	if second.DisplayOrder != 1 || third.DisplayOrder != 7 || dup.DisplayOrder != 3 {
		t.Fatalf("orders: second=%d third=%d dup=%d", second.DisplayOrder, third.DisplayOrder, dup.DisplayOrder)
	}
	if dup.StorageKey == first.StorageKey {
		t.Fatalf("same filename overwrote an existing key: %s", dup.StorageKey)
	}

	images, err := f.images.List(f.ctx, lot.ID)
	if err != nil || len(images) != 4 {
		t.Fatalf("List: n=%d err=%v", len(images), err)
	}
	var primaries []uuid.UUID
	for _, img := range images {
		if img.IsPrimary {
			primaries = append(primaries, img.ID)
		}
	}
	if len(primaries) != 1 || primaries[0] != third.ID {
		t.Fatalf("primary: want only %s got=%v", third.ID, primaries)
	}
}

func TestUploadWithoutThumbnailStillSucceeds(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 1000)

	// Header and IHDR survive, pixel data does not: the size is readable but the image is not.
	full := pngBytes(t, 120, 80)
	truncated := full[:33]
	img, err := f.images.Upload(as(staff), lot.ID, ImageUpload{Filename: "scan.png", Data: truncated})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if img.ThumbnailKey != nil || img.ThumbnailURL != nil {
		t.Fatalf("thumbnail: want nil got=%v", img.ThumbnailKey)
	}
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 1000)
	good := pngBytes(t, 10, 10)

	_, err := f.images.Upload(as(seller), lot.ID, ImageUpload{Filename: "x.png", Data: good})
	wantCode(t, "seller upload", err, types.CodeForbidden)
	_, err = f.images.Upload(as(staff), lot.ID, ImageUpload{Filename: "x.png"})
	wantCode(t, "empty file", err, types.CodeInvalidArgument)
	_, err = f.images.Upload(as(staff), lot.ID, ImageUpload{Filename: "notes.txt", Data: []byte("condition report")})
	wantCode(t, "not an image", err, types.CodeInvalidArgument)
	_, err = f.images.Upload(as(staff), lot.ID, ImageUpload{Filename: "x.png", Data: good, DisplayOrder: ptr(-1)})
	wantCode(t, "negative order", err, types.CodeInvalidArgument)
	_, err = f.images.Upload(as(staff), uuid.New(), ImageUpload{Filename: "x.png", Data: good})
	wantCode(t, "unknown lot", err, types.CodeNotFound)
	_, err = f.images.List(f.ctx, uuid.New())
	wantCode(t, "list unknown lot", err, types.CodeNotFound)
}

func TestDeleteImageRemovesFiles(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 1000)
	img, err := f.images.Upload(as(staff), lot.ID, ImageUpload{Filename: "x.png", Data: pngBytes(t, 50, 50)})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	err = f.images.Delete(as(seller), img.ID)
	wantCode(t, "seller delete", err, types.CodeForbidden)
	if err := f.images.Delete(as(staff), img.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, key := range []string{img.StorageKey, *img.ThumbnailKey} {
		if _, err := f.media.Open(f.ctx, key); err == nil {
			t.Fatalf("%s still stored after delete", key)
		}
	}
	err = f.images.Delete(as(staff), img.ID)
	wantCode(t, "delete twice", err, types.CodeNotFound)
}
