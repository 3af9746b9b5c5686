package places

// SearchResponse is the raw response body of a text-search request.
type SearchResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// Place is a single entry of the upstream places list. Only the fields the
// exporter cares about are decoded; everything else in the response is ignored.
type Place struct {
	ID               string       `json:"id"`
	DisplayName      *DisplayName `json:"displayName,omitempty"`
	FormattedAddress string       `json:"formattedAddress"`
	PrimaryType      string       `json:"primaryType"`
	Rating           *float64     `json:"rating,omitempty"`
	UserRatingCount  *int         `json:"userRatingCount,omitempty"`
	BusinessStatus   string       `json:"businessStatus"`
}

// DisplayName holds the localized place name.
type DisplayName struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// searchRequest is the request body of a text-search call.
type searchRequest struct {
	TextQuery string `json:"textQuery"`
	PageToken string `json:"pageToken,omitempty"`
}

// RecordHeader lists the exported field names in CSV column order.
var RecordHeader = []string{
	"id",
	"displayName",
	"formattedAddress",
	"primaryType",
	"rating",
	"userRatingCount",
	"businessStatus",
}

// Record is the flattened, export-ready view of a Place. All fields are
// strings so that absent numeric values serialize as empty CSV cells, matching
// the upstream's optional rating fields.
type Record struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	PrimaryType      string `json:"primaryType"`
	Rating           string `json:"rating"`
	UserRatingCount  string `json:"userRatingCount"`
	BusinessStatus   string `json:"businessStatus"`
}

// Fields returns the record values in RecordHeader order.
func (r Record) Fields() []string {
	return []string{
		r.ID,
		r.DisplayName,
		r.FormattedAddress,
		r.PrimaryType,
		r.Rating,
		r.UserRatingCount,
		r.BusinessStatus,
	}
}
