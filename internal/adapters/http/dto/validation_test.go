package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/storefront/internal/domain"
)

func jsonContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func queryContext(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)

	return c
}

func TestBindAndValidate_AddToCart(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    error
		wantFields map[string]string
		wantID     int
	}{
		{name: "valid", body: `{"productId":3}`, wantID: 3},
		{name: "malformed json", body: `{productId}`, wantErr: ErrBinding},
		{
			name:       "missing id",
			body:       `{}`,
			wantErr:    ErrValidation,
			wantFields: map[string]string{"productId": "this field is required"},
		},
		{
			name:       "negative id",
			body:       `{"productId":-1}`,
			wantErr:    ErrValidation,
			wantFields: map[string]string{"productId": "must be greater than 0"},
		},
		{name: "string id", body: `{"productId":"3"}`, wantErr: ErrBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := jsonContext(tt.body)

			var req AddToCartRequest
			err := BindAndValidate(c, &req)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, req.ProductID)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, ValidationErrors(err))
			}
		})
	}
}

func TestBindAndValidate_UpdateQuantity(t *testing.T) {
	c, _ := jsonContext(`{"delta":-2}`)
	var req UpdateQuantityRequest
	require.NoError(t, BindAndValidate(c, &req))
	assert.Equal(t, -2, *req.Delta)

	c, _ = jsonContext(`{}`)
	req = UpdateQuantityRequest{}
	err := BindAndValidate(c, &req)
	require.ErrorIs(t, err, ErrValidation)
	assert.True(t, IsValidationError(err))

	c, _ = jsonContext(`{"delta":0}`)
	req = UpdateQuantityRequest{}
	err = BindAndValidate(c, &req)
	require.ErrorIs(t, err, ErrValidation)
	assert.True(t, domain.IsValidation(err), "custom rules surface as domain validation errors")
	assert.False(t, IsValidationError(err))
}

func TestBindAndValidate_CartVisibility(t *testing.T) {
	c, _ := jsonContext(`{"open":false}`)
	var req CartVisibilityRequest
	require.NoError(t, BindAndValidate(c, &req))
	require.NotNil(t, req.Open)
	assert.False(t, *req.Open)

	c, _ = jsonContext(`{}`)
	req = CartVisibilityRequest{}
	require.ErrorIs(t, BindAndValidate(c, &req), ErrValidation)
}

func TestBindQueryAndValidate_ListProducts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       ListProductsQuery
		wantFields []string
	}{
		{
			name:  "empty query",
			query: "",
			want:  ListProductsQuery{},
		},
		{
			name:  "all parameters",
			query: "category=jewelery&search=ring&page=2&per_page=4&max_visible=3&viewport_width=500",
			want: ListProductsQuery{
				ProductFilterQuery: ProductFilterQuery{Category: "jewelery", Search: "ring"},
				PageQuery: PageQuery{
					WindowQuery: WindowQuery{MaxVisible: 3, ViewportWidth: 500},
					Page:        2,
					PerPage:     4,
				},
			},
		},
		{
			name:       "out of range",
			query:      "page=-1&per_page=500&max_visible=99",
			wantFields: []string{"page", "per_page", "max_visible"},
		},
		{
			name:       "control characters in search",
			query:      "search=a%00b",
			wantFields: []string{"search"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q ListProductsQuery
			err := BindQueryAndValidate(queryContext(tt.query), &q)

			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, q)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			fields := ValidationErrors(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestBindQueryAndValidate_NonNumericPage(t *testing.T) {
	var q ListProductsQuery
	err := BindQueryAndValidate(queryContext("page=two"), &q)

	require.ErrorIs(t, err, ErrBinding)
}

func TestRespondBindError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		target     any
		wantCode   string
		wantDetail string
	}{
		{name: "struct validation", body: `{}`, target: &AddToCartRequest{}, wantCode: ErrorCodeValidation, wantDetail: "productId"},
		{name: "custom validation", body: `{"delta":0}`, target: &UpdateQuantityRequest{}, wantCode: ErrorCodeValidation, wantDetail: "delta"},
		{name: "binding", body: `[`, target: &AddToCartRequest{}, wantCode: ErrorCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := jsonContext(tt.body)

			err := BindAndValidate(c, tt.target)
			require.Error(t, err)

			RespondBindError(c, err)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantDetail != "" {
				assert.Contains(t, resp.Error.Details, tt.wantDetail)
			}
		})
	}
}

func TestValidationMessage_MinMax(t *testing.T) {
	type sample struct {
		Name  string `json:"name"  validate:"min=3"`
		Count int    `json:"count" validate:"max=2"`
		Tag   string `json:"tag"   validate:"email"`
	}

	err := Validate(sample{Name: "ab", Count: 5, Tag: "x"})
	require.Error(t, err)

	fields := ValidationErrors(err)
	assert.Equal(t, "must be at least 3 characters", fields["name"])
	assert.Equal(t, "must be at most 2", fields["count"])
	assert.Equal(t, "failed validation: email", fields["tag"])
}

func TestValidateNotEmpty(t *testing.T) {
	type sample struct {
		Value string `json:"value" validate:"notempty"`
	}

	assert.NoError(t, Validate(sample{Value: " x "}))
	assert.Error(t, Validate(sample{Value: "   "}))
}

func TestValidator_Singleton(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}
