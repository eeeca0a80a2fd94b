package rpc

import (
	"testing"

	"github.com/buildsignal/statusstore/internal/rpcapi"
)

func TestJSONCodec_RoundTrips(t *testing.T) {
	c := jsonCodec{}
	want := rpcapi.ImportRequest{
		RepositoryID: "repo-a",
		Builds:       []rpcapi.Build{{Commit: "c1", Name: "ci", Timestamp: 100}},
		Timestamp:    500,
	}

	data, err := c.Marshal(&want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got rpcapi.ImportRequest
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RepositoryID != want.RepositoryID || got.Timestamp != want.Timestamp {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.Builds) != 1 || got.Builds[0].Commit != "c1" {
		t.Errorf("got builds %+v", got.Builds)
	}
}

func TestJSONCodec_Name(t *testing.T) {
	if (jsonCodec{}).Name() != "proto" {
		t.Error("codec must register under the name \"proto\" to become the default for CallContentSubtype-less calls")
	}
}
