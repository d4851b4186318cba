// AngelaMos | 2026
// form_test.go

package property

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFile struct {
	name string
	data []byte
}

func multipartRequest(t *testing.T, fields [][2]string, files []formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(newImagesKey, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestParseUpdateForm(t *testing.T) {
	req := multipartRequest(t, [][2]string{
		{"title", "Renovated 3BHK"},
		{"price", "8100000"},
		{"description", "undefined"},
		{"location[city]", "Mumbai"},
		{"location[lat]", "19.07"},
		{existingImagesKey, "https://cdn.example.com/a.jpg"},
		{existingImagesKey, "https://cdn.example.com/b.jpg"},
	}, []formFile{
		{"new.png", []byte("png-bytes")},
		{"empty.png", nil},
	})

	form, err := ParseUpdateForm(req, 1<<20)
	require.NoError(t, err)

	require.NotNil(t, form.Fields["title"])
	assert.Equal(t, "Renovated 3BHK", *form.Fields["title"])
	assert.Contains(t, form.Fields, "description")
	assert.Nil(t, form.Fields["description"])
	assert.Equal(t, "Mumbai", form.Location["city"])
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, form.ExistingImages)
	require.Len(t, form.NewImages, 1)
	assert.Equal(t, []byte("png-bytes"), form.NewImages[0])
}

func ptr(s string) *string { return &s }

func TestUpdateFormApply(t *testing.T) {
	base := *validBuilding()
	base.Description = "old text"

	form := &UpdateForm{
		Fields: map[string]*string{
			"title":       ptr("Renovated 3BHK"),
			"price":       ptr("8100000"),
			"isPremium":   ptr("true"),
			"facing":      ptr("Not Specified"),
			"bedrooms":    ptr("4"),
			"description": nil,
		},
		Location:       map[string]string{"city": "Mumbai", "lat": "19.07"},
		ExistingImages: []string{"https://cdn.example.com/b.jpg"},
	}

	p, err := form.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, "Renovated 3BHK", p.Title)
	assert.InDelta(t, 8100000, p.Price, 0.001)
	assert.True(t, p.IsPremium)
	assert.Empty(t, p.Facing)
	assert.Empty(t, p.Description)
	assert.Equal(t, "Mumbai", p.Location.City)
	assert.Equal(t, "Maharashtra", p.Location.State)
	require.NotNil(t, p.Location.Lat)
	assert.InDelta(t, 19.07, *p.Location.Lat, 0.0001)
	assert.Equal(t, []string{"https://cdn.example.com/b.jpg"}, p.Images)

	b, ok := p.Building()
	require.True(t, ok)
	assert.Equal(t, 4, *b.Bedrooms)
	assert.Equal(t, "Fully-furnished", b.Furnishing)

	assert.Equal(t, "Sunny 3BHK", base.Title)
}

func TestUpdateFormApplyChangesKind(t *testing.T) {
	base := *validBuilding()

	form := &UpdateForm{
		Fields: map[string]*string{
			"type":         ptr("land"),
			"landCategory": ptr("Residential"),
		},
		ExistingImages: []string{"https://cdn.example.com/a.jpg"},
	}

	p, err := form.Apply(base)
	require.NoError(t, err)

	land, ok := p.Land()
	require.True(t, ok)
	assert.Equal(t, "Residential", land.Category)
}

func TestUpdateFormApplyBadNumbers(t *testing.T) {
	form := &UpdateForm{
		Fields: map[string]*string{
			"price":  ptr("lots"),
			"floors": ptr("2.5"),
		},
	}

	_, err := form.Apply(*validBuilding())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floors must be a whole number")
	assert.Contains(t, err.Error(), "price must be a number")
}
