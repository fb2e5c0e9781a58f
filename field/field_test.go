package field

import (
	"testing"
	"time"
)

type getUserReq struct {
	UserId   int    `json:"id"`
	Username string `json:"username,omitempty"`
	Remark   string
	Secret   string `json:"-"`
	internal string
}

type Paging struct {
	Page  int
	Limit int
}

type listReq struct {
	Paging
	Keyword string
}

type explicit struct{}

func (explicit) Field(key string) (any, bool) {
	if key == "status" {
		return "ok", true
	}
	return nil, false
}

type myMap map[string]int

func TestGetStruct(t *testing.T) {
	req := getUserReq{UserId: 42, Username: "yongj", Remark: "hello", Secret: "s", internal: "i"}

	cases := []struct {
		key  string
		want any
		ok   bool
	}{
		{"id", 42, true},
		{"UserId", 42, true},
		{"userId", 42, true},
		{"username", "yongj", true},
		{"Remark", "hello", true},
		{"remark", "hello", true},
		{"Secret", nil, false},
		{"internal", nil, false},
		{"nope", nil, false},
	}
	for _, c := range cases {
		v, ok := Get(req, c.key)
		if ok != c.ok || v != c.want {
			t.Errorf("key: %v, expected (%v, %v), actual (%v, %v)", c.key, c.want, c.ok, v, ok)
		}
		pv, pok := Get(&req, c.key)
		if pok != ok || pv != v {
			t.Errorf("pointer lookup differs for key: %v", c.key)
		}
	}
}

func TestGetEmbedded(t *testing.T) {
	v, ok := Get(listReq{Paging: Paging{Page: 2, Limit: 10}, Keyword: "k"}, "page")
	if !ok || v != 2 {
		t.Fatalf("expected promoted field, actual (%v, %v)", v, ok)
	}
}

func TestGetMap(t *testing.T) {
	v, ok := Get(map[string]any{"id": 42}, "id")
	if !ok || v != 42 {
		t.Fatalf("unexpected (%v, %v)", v, ok)
	}
	if _, ok := Get(map[string]any{"id": 42}, "status"); ok {
		t.Fatal("status should be missing")
	}
	v, ok = Get(myMap{"n": 1}, "n")
	if !ok || v != 1 {
		t.Fatalf("unexpected (%v, %v)", v, ok)
	}
	if _, ok := Get(map[int]string{1: "a"}, "1"); ok {
		t.Fatal("non string keyed map is not supported")
	}
}

func TestGetGetter(t *testing.T) {
	v, ok := Get(explicit{}, "status")
	if !ok || v != "ok" {
		t.Fatalf("unexpected (%v, %v)", v, ok)
	}
	if _, ok := Get(&explicit{}, "id"); ok {
		t.Fatal("id should be missing")
	}
}

func TestGetNil(t *testing.T) {
	if _, ok := Get(nil, "id"); ok {
		t.Fatal("nil should not have fields")
	}
	var req *getUserReq
	if _, ok := Get(req, "id"); ok {
		t.Fatal("nil pointer should not have fields")
	}
	if _, ok := Get(42, "id"); ok {
		t.Fatal("scalar should not have fields")
	}
}

func TestRender(t *testing.T) {
	var np *Paging
	cases := []struct {
		v    any
		want string
	}{
		{"ok", "ok"},
		{42, "42"},
		{int64(-1), "-1"},
		{3.5, "3.5"},
		{true, "true"},
		{nil, NilValue},
		{np, NilValue},
		{time.Second, "1s"},
		{Paging{Page: 1, Limit: 2}, `{"page":1,"limit":2}`},
		{&Paging{Page: 1}, `{"page":1,"limit":0}`},
		{[]int{1, 2}, `[1,2]`},
		{map[string]string{"a": "b"}, `{"a":"b"}`},
	}
	for _, c := range cases {
		if s := Render(c.v); s != c.want {
			t.Errorf("render %#v, expected %q, actual %q", c.v, c.want, s)
		}
	}
}
