package render

import (
	"fmt"
	"io"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/popshare/popshare/internal/compute"
	"github.com/popshare/popshare/internal/dataset"
)

// Exposition metric names.
const (
	MetricPopulation      = "popshare_population"
	MetricSharePercent    = "popshare_share_percent"
	MetricPopulationTotal = "popshare_population_total"
	MetricShareMax        = "popshare_share_max_percent"
)

// sexes pairs the label value with the count and share columns it reads.
var sexes = []struct {
	label, count, share string
}{
	{"male", dataset.ColMale, compute.ColMalePct},
	{"female", dataset.ColFemale, compute.ColFemalePct},
}

// writeProm encodes res as Prometheus text exposition. Each row yields one
// count and one share sample per sex, labelled with the row's age bracket.
func writeProm(w io.Writer, res *compute.Result) error {
	df := res.Frame
	ages := ageLabels(res)

	population := gaugeFamily(MetricPopulation, "Population count by age bracket and sex.")
	share := gaugeFamily(MetricSharePercent, "Share of the grand total by age bracket and sex, in percent.")

	for _, sx := range sexes {
		counts := df.Col(sx.count).Float()
		shares := df.Col(sx.share).Float()
		for i, age := range ages {
			labels := []*dto.LabelPair{
				{Name: proto.String("age"), Value: proto.String(age)},
				{Name: proto.String("sex"), Value: proto.String(sx.label)},
			}
			population.Metric = append(population.Metric, gauge(counts[i], labels))
			share.Metric = append(share.Metric, gauge(shares[i], labels))
		}
	}

	total := gaugeFamily(MetricPopulationTotal, "Grand total of all male and female counts.")
	total.Metric = []*dto.Metric{gauge(res.Summary.Total, nil)}

	maxShare := gaugeFamily(MetricShareMax, "Largest single share across both sexes, in percent.")
	maxShare.Metric = []*dto.Metric{gauge(res.Summary.MaxShare, nil)}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range []*dto.MetricFamily{population, share, total, maxShare} {
		// The text encoder rejects families with no samples (zero-row frames).
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("render: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// ageLabels returns the age bracket for each row, falling back to the row
// index for frames built without an age column.
func ageLabels(res *compute.Result) []string {
	if err := dataset.Require(res.Frame, dataset.ColAge); err == nil {
		return res.Frame.Col(dataset.ColAge).Records()
	}
	out := make([]string, res.Frame.Nrow())
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func gaugeFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(v float64, labels []*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}
