package registry

// Record is one row of the published corporate registry. The registry
// publishes thirty columns per legal entity; apart from CorporateNumber,
// Name and Furigana the pipeline treats them as opaque pass-through data.
type Record struct {
	SequenceNumber           string `json:"sequence_number"`
	CorporateNumber          string `json:"corporate_number"`
	Process                  string `json:"process"`
	Correct                  string `json:"correct"`
	UpdateDate               string `json:"update_date"`
	ChangeDate               string `json:"change_date"`
	Name                     string `json:"name"`
	NameImageID              string `json:"name_image_id"`
	Kind                     string `json:"kind"`
	PrefectureName           string `json:"prefecture_name"`
	CityName                 string `json:"city_name"`
	StreetNumber             string `json:"street_number"`
	AddressImageID           string `json:"address_image_id"`
	PrefectureCode           string `json:"prefecture_code"`
	CityCode                 string `json:"city_code"`
	PostCode                 string `json:"post_code"`
	AddressOutside           string `json:"address_outside"`
	AddressOutsideImageID    string `json:"address_outside_image_id"`
	CloseDate                string `json:"close_date"`
	CloseCause               string `json:"close_cause"`
	SuccessorCorporateNumber string `json:"successor_corporate_number"`
	ChangeCause              string `json:"change_cause"`
	AssignmentDate           string `json:"assignment_date"`
	Latest                   string `json:"latest"`
	EnName                   string `json:"en_name"`
	EnPrefectureName         string `json:"en_prefecture_name"`
	EnCityName               string `json:"en_city_name"`
	EnAddressOutside         string `json:"en_address_outside"`
	Furigana                 string `json:"furigana"`
	Hihyoji                  string `json:"hihyoji"`
}

// Government-organ kind codes. Rows with these codes carry organ names
// rather than corporate names, so they are excluded from classification
// coverage statistics (they are still enriched and emitted).
var governmentKinds = map[string]struct{}{
	"101": {},
	"201": {},
	"399": {},
	"499": {},
}

// IsGovernmentKind reports whether the kind code denotes a government organ.
func IsGovernmentKind(kind string) bool {
	_, ok := governmentKinds[kind]
	return ok
}

// Header returns the raw dataset column names in publication order.
func Header() []string {
	return []string{
		"sequence_number",
		"corporate_number",
		"process",
		"correct",
		"update_date",
		"change_date",
		"name",
		"name_image_id",
		"kind",
		"prefecture_name",
		"city_name",
		"street_number",
		"address_image_id",
		"prefecture_code",
		"city_code",
		"post_code",
		"address_outside",
		"address_outside_image_id",
		"close_date",
		"close_cause",
		"successor_corporate_number",
		"change_cause",
		"assignment_date",
		"latest",
		"en_name",
		"en_prefecture_name",
		"en_city_name",
		"en_address_outside",
		"furigana",
		"hihyoji",
	}
}

// Row returns the record as a CSV row matching Header order.
func (r Record) Row() []string {
	return []string{
		r.SequenceNumber,
		r.CorporateNumber,
		r.Process,
		r.Correct,
		r.UpdateDate,
		r.ChangeDate,
		r.Name,
		r.NameImageID,
		r.Kind,
		r.PrefectureName,
		r.CityName,
		r.StreetNumber,
		r.AddressImageID,
		r.PrefectureCode,
		r.CityCode,
		r.PostCode,
		r.AddressOutside,
		r.AddressOutsideImageID,
		r.CloseDate,
		r.CloseCause,
		r.SuccessorCorporateNumber,
		r.ChangeCause,
		r.AssignmentDate,
		r.Latest,
		r.EnName,
		r.EnPrefectureName,
		r.EnCityName,
		r.EnAddressOutside,
		r.Furigana,
		r.Hihyoji,
	}
}

// FromRow builds a Record from a CSV row in Header order.
func FromRow(row []string) (Record, bool) {
	if len(row) != len(Header()) {
		return Record{}, false
	}
	return Record{
		SequenceNumber:           row[0],
		CorporateNumber:          row[1],
		Process:                  row[2],
		Correct:                  row[3],
		UpdateDate:               row[4],
		ChangeDate:               row[5],
		Name:                     row[6],
		NameImageID:              row[7],
		Kind:                     row[8],
		PrefectureName:           row[9],
		CityName:                 row[10],
		StreetNumber:             row[11],
		AddressImageID:           row[12],
		PrefectureCode:           row[13],
		CityCode:                 row[14],
		PostCode:                 row[15],
		AddressOutside:           row[16],
		AddressOutsideImageID:    row[17],
		CloseDate:                row[18],
		CloseCause:               row[19],
		SuccessorCorporateNumber: row[20],
		ChangeCause:              row[21],
		AssignmentDate:           row[22],
		Latest:                   row[23],
		EnName:                   row[24],
		EnPrefectureName:         row[25],
		EnCityName:               row[26],
		EnAddressOutside:         row[27],
		Furigana:                 row[28],
		Hihyoji:                  row[29],
	}, true
}

// Enriched is one row of the derived dataset: the classifier output for a
// single raw record, joined one-to-one on CorporateNumber.
type Enriched struct {
	CorporateNumber string
	EntityType      string
	BrandName       string
	BrandNameKana   string
	// Reliability is 0 when the kana came from the official furigana column
	// or the brand name was already written in kana, 1 when it is an
	// estimate derived from the dictionary or romaji rules.
	Reliability int
}

// EnrichedHeader returns the enriched dataset column names.
func EnrichedHeader() []string {
	return []string{
		"corporate_number",
		"entity_type",
		"brand_name",
		"brand_name_kana",
		"reliability",
	}
}
