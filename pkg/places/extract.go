package places

import "strconv"

// ExtractRecords flattens a raw search response into export-ready records.
// A response without a places list yields an empty slice, never an error:
// continuation pages legitimately come back empty. Absent fields default to
// the empty string.
func ExtractRecords(resp *SearchResponse) []Record {
	records := make([]Record, 0, len(resp.Places))

	for _, place := range resp.Places {
		record := Record{
			ID:               place.ID,
			FormattedAddress: place.FormattedAddress,
			PrimaryType:      place.PrimaryType,
			BusinessStatus:   place.BusinessStatus,
		}

		if place.DisplayName != nil {
			record.DisplayName = place.DisplayName.Text
		}
		if place.Rating != nil {
			record.Rating = strconv.FormatFloat(*place.Rating, 'f', -1, 64)
		}
		if place.UserRatingCount != nil {
			record.UserRatingCount = strconv.Itoa(*place.UserRatingCount)
		}

		records = append(records, record)
	}

	return records
}
