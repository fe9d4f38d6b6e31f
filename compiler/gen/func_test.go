package gen

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Username", "username"},
		{"FullName", "full_name"},
		{"HTTPCode", "http_code"},
		{"UserID", "user_id"},
		{"XMLParser", "xml_parser"},
		{"getHTTPResponse", "get_http_response"},
		{"already_snake", "already_snake"},
		{"A", "a"},
		{"AB", "ab"},
		{"", ""},
		{"userInfo", "user_info"},
		{"OrderItem", "order_item"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, snake(tt.input))
		})
	}
}

func TestKebab(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OrderItem", "order-item"},
		{"userProfile", "user-profile"},
		{"User", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, kebab(tt.input))
		})
	}
}

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "UserInfo"},
		{"full_name", "FullName"},
		{"user_id", "UserID"},
		{"http_code", "HTTPCode"},
		{"full-admin", "FullAdmin"},
		{"already", "Already"},
		{"a", "A"},
		{"ab", "Ab"},
		{"a_b", "AB"},
		{"xml_parser", "XMLParser"},
		{"api_url", "APIURL"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, pascal(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "userInfo"},
		{"full_name", "fullName"},
		{"user_id", "userID"},
		{"http_code", "httpCode"},
		{"full-admin", "fullAdmin"},
		{"already", "already"},
		{"a", "a"},
		{"user", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, camel(tt.input))
		})
	}
}

func TestJavaCase(t *testing.T) {
	// Java identifiers never keep acronym runs upper.
	assert.Equal(t, "UserId", javaClass("user_id"))
	assert.Equal(t, "ApiUrl", javaClass("api_url"))
	assert.Equal(t, "OrderItem", javaClass("order item"))
	assert.Equal(t, "userId", javaField("UserID"))
	assert.Equal(t, "createdAt", javaField("created_at"))
}

func TestPlural(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "Users"},
		{"Category", "Categories"},
		{"Person", "People"},
		{"order", "orders"},
		{"Data", "DataList"}, // already plural or uncountable
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, plural(tt.input))
		})
	}
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "Category", singular("Categories"))
	assert.Equal(t, "order", singular("orders"))
}

func TestXrange(t *testing.T) {
	tests := []struct {
		n        int
		expected []int
	}{
		{0, nil},
		{1, []int{0}},
		{3, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, xrange(tt.n))
		})
	}
}

func TestAdd(t *testing.T) {
	assert.Equal(t, 0, add())
	assert.Equal(t, 6, add(1, 2, 3))
	assert.Equal(t, 0, add(-1, 1))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"hello"`, quote("hello"))
	assert.Equal(t, 123, quote(123))
	assert.Equal(t, nil, quote(nil))
}

func TestIndexOf(t *testing.T) {
	slice := []string{"a", "b", "c"}
	assert.Equal(t, 0, indexOf(slice, "a"))
	assert.Equal(t, 2, indexOf(slice, "c"))
	assert.Equal(t, -1, indexOf(slice, "x"))
}

func TestJoinWords(t *testing.T) {
	tests := []struct {
		words    []string
		maxSize  int
		expected string
	}{
		{[]string{}, 10, ""},
		{[]string{"hello"}, 10, "hello"},
		{[]string{"hello", "world"}, 20, "hello world"},
		{[]string{"hello", "world"}, 5, "hello\n world"},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, joinWords(tt.words, tt.maxSize))
		})
	}
}

func TestDict(t *testing.T) {
	d := dict("key1", "value1", "key2", 123)
	assert.Equal(t, "value1", d["key1"])
	assert.Equal(t, 123, d["key2"])

	odd := dict("key1", "value1", "key2")
	assert.Equal(t, "", odd["key2"])

	assert.Empty(t, dict())
}

func TestGetSetUnset(t *testing.T) {
	d := map[string]any{}
	assert.Equal(t, "", get(d, "missing"))
	d = set(d, "key", "value")
	assert.Equal(t, "value", get(d, "key"))
	assert.True(t, hasKey(d, "key"))
	d = unset(d, "key")
	assert.False(t, hasKey(d, "key"))
}

func TestFail(t *testing.T) {
	out, err := fail("test error")
	assert.Equal(t, "", out)
	require.Error(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestToString(t *testing.T) {
	assert.Equal(t, "hello", toString("hello"))
	assert.Equal(t, "bytes", toString([]byte("bytes")))
	assert.Equal(t, "123", toString(123))
	assert.Equal(t, "true", toString(true))
}

func TestKeys(t *testing.T) {
	result, err := keys(reflect.ValueOf(map[string]int{"b": 2, "a": 1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)

	_, err = keys(reflect.ValueOf([]string{"a"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect map")
}

func TestAddAcronym(t *testing.T) {
	AddAcronym("FORGE")
	assert.Equal(t, "FORGETest", pascal("forge_test"))
}

func TestIsSeparator(t *testing.T) {
	assert.True(t, isSeparator('_'))
	assert.True(t, isSeparator('-'))
	assert.True(t, isSeparator(' '))
	assert.False(t, isSeparator('a'))
}
