package engine

import (
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// series builds consecutive daily counts for a variant ending on the given date.
func series(variantID int64, last string, qtys ...float64) []domain.CountRecord {
	end := day(last)
	out := make([]domain.CountRecord, len(qtys))
	for i, q := range qtys {
		out[i] = domain.CountRecord{
			VariantID:  variantID,
			Date:       end.AddDate(0, 0, i-len(qtys)+1),
			CountedQty: q,
		}
	}
	return out
}

func variant(id, productID int64, name, form string, conversion *float64) domain.Variant {
	return domain.Variant{
		ID:               id,
		ProductID:        productID,
		DisplayName:      name,
		Form:             form,
		Container:        "box",
		ConversionToBase: conversion,
	}
}

func settings(cover, buffer float64) domain.Settings {
	s := domain.DefaultSettings()
	s.CoverDaysMonday = cover
	s.CoverDaysFriday = cover
	s.SafetyBufferDays = buffer
	return s
}

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
