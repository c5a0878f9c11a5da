package omdb

// envelope carries the fields every OMDb response shares.
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error,omitempty"`
}

// searchResponse is the payload of a search (s=) request.
type searchResponse struct {
	Response     string        `json:"Response"`
	Error        string        `json:"Error,omitempty"`
	Search       []wireSummary `json:"Search,omitempty"`
	TotalResults string        `json:"totalResults,omitempty"`
}

type wireSummary struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type wireRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// wireDetails is the payload of a detail (i=) request.
type wireDetails struct {
	Response   string       `json:"Response"`
	Error      string       `json:"Error,omitempty"`
	Title      string       `json:"Title"`
	Year       string       `json:"Year"`
	Rated      string       `json:"Rated"`
	Released   string       `json:"Released"`
	Runtime    string       `json:"Runtime"`
	Genre      string       `json:"Genre"`
	Director   string       `json:"Director"`
	Writer     string       `json:"Writer"`
	Actors     string       `json:"Actors"`
	Plot       string       `json:"Plot"`
	Language   string       `json:"Language"`
	Country    string       `json:"Country"`
	Awards     string       `json:"Awards"`
	Poster     string       `json:"Poster"`
	Ratings    []wireRating `json:"Ratings"`
	Metascore  string       `json:"Metascore"`
	IMDbRating string       `json:"imdbRating"`
	IMDbVotes  string       `json:"imdbVotes"`
	IMDbID     string       `json:"imdbID"`
	Type       string       `json:"Type"`
	DVD        string       `json:"DVD,omitempty"`
	BoxOffice  string       `json:"BoxOffice,omitempty"`
	Production string       `json:"Production,omitempty"`
	Website    string       `json:"Website,omitempty"`
}
