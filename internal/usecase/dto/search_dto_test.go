package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prospect-discovery/internal/domain"
	"github.com/prospect-discovery/internal/usecase/dto"
)

func TestConvertProspect_BusinessType(t *testing.T) {
	center := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}

	t.Run("generic tags dropped, two kept, title cased", func(t *testing.T) {
		result := dto.ConvertProspect(domain.Business{
			PlaceID: "a",
			Name:    "Some Bakery",
			Types:   []string{"point_of_interest", "bakery", "meal_takeaway", "cafe"},
		}, center)

		assert.Equal(t, "Bakery, Meal Takeaway", result.BusinessType)
	})

	t.Run("multibyte initial letters are capitalized", func(t *testing.T) {
		result := dto.ConvertProspect(domain.Business{
			PlaceID: "b",
			Name:    "Lycée",
			Types:   []string{"école_privée"},
		}, center)

		assert.Equal(t, "École Privée", result.BusinessType)
	})

	t.Run("only generic tags yields empty type", func(t *testing.T) {
		result := dto.ConvertProspect(domain.Business{
			PlaceID: "c",
			Name:    "Plain",
			Types:   []string{"establishment", "point_of_interest"},
		}, center)

		assert.Empty(t, result.BusinessType)
	})
}

func TestConvertProspect_WebsiteAndDistance(t *testing.T) {
	center := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}

	result := dto.ConvertProspect(domain.Business{
		PlaceID: "d",
		Name:    "With Geometry",
		Website: "https://www.Example.com/about",
		Geometry: &domain.Geometry{
			Location: domain.Coordinate{Lat: 40.7138, Lng: -74.0060},
		},
	}, center)

	assert.Equal(t, "example.com", result.WebsiteDomain)
	if assert.NotNil(t, result.DistanceMeters) {
		// ~111 m per 0.001 degree of latitude
		assert.InDelta(t, 111.0, *result.DistanceMeters, 5.0)
	}
}
