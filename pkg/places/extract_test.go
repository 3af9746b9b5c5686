package places

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractRecords_NoPlaces(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "null places", body: `{"places": null}`},
		{name: "empty places list", body: `{"places": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp SearchResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			records := ExtractRecords(&resp)
			if records == nil {
				t.Error("Expected empty slice, got nil")
			}
			if len(records) != 0 {
				t.Errorf("Records count = %d, want 0", len(records))
			}
		})
	}
}

func TestExtractRecords_FullPlace(t *testing.T) {
	body := `{"places": [{
		"id": "ChIJabc123",
		"displayName": {"text": "Cool Air HVAC", "languageCode": "en"},
		"formattedAddress": "123 Main St, Fuquay-Varina, NC 27526",
		"primaryType": "hvac_contractor",
		"rating": 4.8,
		"userRatingCount": 152,
		"businessStatus": "OPERATIONAL"
	}]}`

	var resp SearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	records := ExtractRecords(&resp)
	if len(records) != 1 {
		t.Fatalf("Records count = %d, want 1", len(records))
	}

	want := Record{
		ID:               "ChIJabc123",
		DisplayName:      "Cool Air HVAC",
		FormattedAddress: "123 Main St, Fuquay-Varina, NC 27526",
		PrimaryType:      "hvac_contractor",
		Rating:           "4.8",
		UserRatingCount:  "152",
		BusinessStatus:   "OPERATIONAL",
	}
	if records[0] != want {
		t.Errorf("Record = %+v, want %+v", records[0], want)
	}
}

func TestExtractRecords_MissingFieldsDefaultToEmpty(t *testing.T) {
	body := `{"places": [{"id": "ChIJbare"}]}`

	var resp SearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	records := ExtractRecords(&resp)
	if len(records) != 1 {
		t.Fatalf("Records count = %d, want 1", len(records))
	}

	want := Record{ID: "ChIJbare"}
	if records[0] != want {
		t.Errorf("Record = %+v, want %+v", records[0], want)
	}
}

func TestExtractRecords_RatingFormatting(t *testing.T) {
	// Whole-number ratings must not grow a trailing ".0" in the CSV cell.
	body := `{"places": [
		{"id": "a", "rating": 4, "userRatingCount": 1},
		{"id": "b", "rating": 4.5, "userRatingCount": 20},
		{"id": "c", "rating": 3.25, "userRatingCount": 0}
	]}`

	var resp SearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	records := ExtractRecords(&resp)
	got := []string{records[0].Rating, records[1].Rating, records[2].Rating}
	want := []string{"4", "4.5", "3.25"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ratings = %v, want %v", got, want)
	}
	if records[2].UserRatingCount != "0" {
		t.Errorf("UserRatingCount = %q, want %q (0 is present, not absent)", records[2].UserRatingCount, "0")
	}
}

func TestExtractRecords_PreservesResponseOrder(t *testing.T) {
	body := `{"places": [{"id": "third"}, {"id": "first"}, {"id": "second"}]}`

	var resp SearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	records := ExtractRecords(&resp)
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	want := []string{"third", "first", "second"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Order = %v, want %v", ids, want)
	}
}

func TestRecordFields_MatchHeaderOrder(t *testing.T) {
	r := Record{
		ID:               "id-1",
		DisplayName:      "Name",
		FormattedAddress: "Addr",
		PrimaryType:      "type",
		Rating:           "4.5",
		UserRatingCount:  "10",
		BusinessStatus:   "OPERATIONAL",
	}

	fields := r.Fields()
	if len(fields) != len(RecordHeader) {
		t.Fatalf("Fields count = %d, want %d", len(fields), len(RecordHeader))
	}

	want := []string{"id-1", "Name", "Addr", "type", "4.5", "10", "OPERATIONAL"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Fields = %v, want %v", fields, want)
	}
}
