package domain

// Reader attributes used to filter loan statistics. Empty fields are not sent.
type ReaderProfile struct {
	Gender string
	Age    string
	KDC    []string
	DtlKDC []string
}

// A popular book as reported by the loan statistics service.
type Book struct {
	Name            string
	Authors         string
	Publisher       string
	PublicationYear string
	ISBN13          string
	ImageURL        string
	LoanCount       int
	Ranking         int
}
