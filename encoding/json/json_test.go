package json

import (
	"bytes"
	"testing"
)

func TestSWriteJson(t *testing.T) {
	type dummy struct {
		RequestId string
		Status    string `json:"st"`
		Hidden    string `json:"-"`
	}
	s, err := SWriteJson(dummy{RequestId: "abc", Status: "ok", Hidden: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if s != `{"requestId":"abc","st":"ok"}` {
		t.Fatalf("unexpected json: %v", s)
	}

	s, err = SWriteJson("plain")
	if err != nil || s != "plain" {
		t.Fatalf("strings should be returned as is, %v, %v", s, err)
	}
}

func TestSParseJson(t *testing.T) {
	type dummy struct {
		Name string
	}
	var d dummy
	if err := SParseJson(`{ "name": "yes" }`, &d); err != nil {
		t.Fatal(err)
	}
	if d.Name != "yes" {
		t.Fatalf("unexpected: %#v", d)
	}
}

func TestEncodeDecodeJson(t *testing.T) {
	type dummy struct {
		Id int
	}
	var buf bytes.Buffer
	if err := EncodeJson(&buf, dummy{Id: 42}); err != nil {
		t.Fatal(err)
	}
	var d dummy
	if err := DecodeJson(&buf, &d); err != nil {
		t.Fatal(err)
	}
	if d.Id != 42 {
		t.Fatalf("unexpected: %#v", d)
	}
}
