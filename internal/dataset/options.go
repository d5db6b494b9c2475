package dataset

// TotalProducer is the producer type that already sums every other producer
// row for a state. Keeping only these rows avoids double counting.
const TotalProducer = "Total Electric Power Industry"

// Option configures Load.
type Option func(*options)

type options struct {
	producer   string
	allSources bool
	minYear    int
	maxYear    int
	sheet      string
}

// WithProducer keeps only long-layout rows of the given producer type.
// An empty producer keeps every row.
func WithProducer(producer string) Option {
	return func(o *options) {
		o.producer = producer
	}
}

// WithAllSources keeps sources that are neither wind nor solar under their own name.
func WithAllSources() Option {
	return func(o *options) {
		o.allSources = true
	}
}

// WithYearRange drops rows outside [min, max]. A zero bound is open.
func WithYearRange(min, max int) Option {
	return func(o *options) {
		o.minYear = min
		o.maxYear = max
	}
}

// WithSheet selects the worksheet of an XLSX input. Default is the first sheet.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		producer: TotalProducer,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) inRange(year int) bool {
	if o.minYear != 0 && year < o.minYear {
		return false
	}
	if o.maxYear != 0 && year > o.maxYear {
		return false
	}
	return true
}
