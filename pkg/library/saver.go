package library

import (
	"context"

	"github.com/xob0t/GoPromoGen/pkg/promo"
)

// Saver stores a rendered promo as an object plus a catalog record.
type Saver struct {
	Objects ObjectStore
	Catalog Catalog
}

var _ promo.Saver = (*Saver)(nil)

// SaveImage implements promo.Saver. The object is stored first; the
// catalog record carries the returned reference.
func (s *Saver) SaveImage(ctx context.Context, pngData []byte, meta promo.SaveMeta) (string, error) {
	ref, err := s.Objects.Put(ctx, meta.Title+".png", "image/png", pngData)
	if err != nil {
		return "", err
	}
	rec := Record{
		Ref:         ref,
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        meta.Tags,
		Mime:        "image/png",
		Size:        len(pngData),
	}
	if err := s.Catalog.Save(ctx, rec); err != nil {
		if dErr := s.Objects.Delete(ctx, ref); dErr != nil {
			return "", dErr
		}
		return "", err
	}
	return ref, nil
}
