package equationconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

// topologyHandler serves a small two-installation account. Device documents
// are answered by deviceByPath, so their names identify them.
func topologyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/installations2.json" {
			deviceByPath(w, r)
			return
		}
		w.Write([]byte(`{
			"inst-2": {
				"name": "Office",
				"userid": "uid-123",
				"zones": {
					"zone-9": {"name": "Desk", "devices": {"dev-z": true}}
				}
			},
			"inst-1": {
				"name": "Home",
				"userid": "uid-123",
				"zones": {
					"zone-2": {"name": "Bedroom", "devices": {"dev-c": true}},
					"zone-1": {"name": "Salon", "devices": {"dev-b": true, "dev-a": true, "dev-stale": false}}
				}
			}
		}`))
	})
}

func TestDeviceRefs(t *testing.T) {
	t.Run("walks the topology in lexical order", func(t *testing.T) {
		client, _ := newTestClient(t, topologyHandler())

		var refs []DeviceRef
		for ref, err := range client.DeviceRefs(context.Background()) {
			if err != nil {
				t.Fatalf("DeviceRefs yielded error: %v", err)
			}
			refs = append(refs, ref)
		}

		want := []DeviceRef{
			{InstallationID: "inst-1", ZoneID: "zone-1", DeviceID: "dev-a"},
			{InstallationID: "inst-1", ZoneID: "zone-1", DeviceID: "dev-b"},
			{InstallationID: "inst-1", ZoneID: "zone-2", DeviceID: "dev-c"},
			{InstallationID: "inst-2", ZoneID: "zone-9", DeviceID: "dev-z"},
		}
		if len(refs) != len(want) {
			t.Fatalf("got %d refs, want %d: %v", len(refs), len(want), refs)
		}
		for i := range want {
			if refs[i] != want[i] {
				t.Errorf("refs[%d] = %+v, want %+v", i, refs[i], want[i])
			}
		}
	})

	t.Run("stops when the caller breaks", func(t *testing.T) {
		client, _ := newTestClient(t, topologyHandler())

		count := 0
		for _, err := range client.DeviceRefs(context.Background()) {
			if err != nil {
				t.Fatalf("DeviceRefs yielded error: %v", err)
			}
			count++
			break
		}

		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("yields the walk error once", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"internal"}`))
		}))

		iterations := 0
		var gotErr error
		for _, err := range client.DeviceRefs(context.Background()) {
			iterations++
			gotErr = err
		}

		if iterations != 1 {
			t.Fatalf("iterations = %d, want 1", iterations)
		}
		var apiErr *APIError
		if !errors.As(gotErr, &apiErr) {
			t.Fatalf("expected *APIError, got: %v", gotErr)
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		client, _ := newTestClient(t, topologyHandler())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		for _, err := range client.DeviceRefs(ctx) {
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got: %v", err)
			}
		}
	})
}

func TestDevices(t *testing.T) {
	t.Run("streams device documents", func(t *testing.T) {
		client, _ := newTestClient(t, topologyHandler())

		var ids, names []string
		for device, err := range client.Devices(context.Background()) {
			if err != nil {
				t.Fatalf("Devices yielded error: %v", err)
			}
			ids = append(ids, device.ID)
			names = append(names, device.Data.Name)
		}

		wantIDs := []string{"dev-a", "dev-b", "dev-c", "dev-z"}
		if len(ids) != len(wantIDs) {
			t.Fatalf("got %d devices, want %d: %v", len(ids), len(wantIDs), ids)
		}
		for i := range wantIDs {
			if ids[i] != wantIDs[i] {
				t.Errorf("ids[%d] = %q, want %q", i, ids[i], wantIDs[i])
			}
			if want := "name-" + wantIDs[i]; names[i] != want {
				t.Errorf("names[%d] = %q, want %q", i, names[i], want)
			}
		}
	})

	t.Run("skips devices that vanished", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/devices/dev-c.json" {
				w.Write([]byte(`null`))
				return
			}
			topologyHandler().ServeHTTP(w, r)
		}))

		var ids []string
		for device, err := range client.Devices(context.Background()) {
			if err != nil {
				t.Fatalf("Devices yielded error: %v", err)
			}
			ids = append(ids, device.ID)
		}

		want := []string{"dev-a", "dev-b", "dev-z"}
		if len(ids) != len(want) {
			t.Fatalf("got %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
			}
		}
	})

	t.Run("stops at the first read failure", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "dev-b") {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal"}`))
				return
			}
			topologyHandler().ServeHTTP(w, r)
		}))

		var ids []string
		var gotErr error
		for device, err := range client.Devices(context.Background()) {
			if err != nil {
				gotErr = err
				continue
			}
			ids = append(ids, device.ID)
		}

		if gotErr == nil {
			t.Fatal("expected error")
		}
		if len(ids) != 1 || ids[0] != "dev-a" {
			t.Errorf("ids = %v, want [dev-a]", ids)
		}
	})

	t.Run("stops when the caller breaks", func(t *testing.T) {
		client, _ := newTestClient(t, topologyHandler())

		count := 0
		for _, err := range client.Devices(context.Background()) {
			if err != nil {
				t.Fatalf("Devices yielded error: %v", err)
			}
			count++
			break
		}

		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	got := sortedKeys(m)

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := sortedKeys(map[string]int{}); len(got) != 0 {
		t.Errorf("expected empty keys, got %v", got)
	}
}
