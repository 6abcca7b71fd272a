package lwb

import (
	"log"
	"math"
	"os"
	"sort"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//BinMapper discretizes one feature column into small integer bin ids. For a
//numerical feature UpperBounds holds the inclusive upper bound of every bin in
//original feature units, the last one being +Inf; for a categorical feature it
//holds the distinct category codes and a bin id is the index of its code.
type BinMapper struct {
	Type        BinType
	UpperBounds []float64
}

//NewBinMapper builds a mapper from the raw values of one feature column.
//Numerical boundaries are midpoints between adjacent distinct values; when the
//column carries more than maxBins distinct values, evenly spaced ones are kept.
func NewBinMapper(values []float64, maxBins int, binType BinType) *BinMapper {
	distinct := distinctSorted(values)
	mapper := &BinMapper{Type: binType}
	if binType == CategoricalBin {
		mapper.UpperBounds = distinct
		return mapper
	}
	if len(distinct) > maxBins {
		sampled := make([]float64, maxBins)
		for i := 0; i < maxBins; i++ {
			sampled[i] = distinct[i*len(distinct)/maxBins]
		}
		distinct = sampled
	}
	mapper.UpperBounds = make([]float64, len(distinct))
	for i := 0; i < len(distinct)-1; i++ {
		mapper.UpperBounds[i] = (distinct[i] + distinct[i+1]) / 2.0
	}
	mapper.UpperBounds[len(distinct)-1] = math.Inf(1)
	return mapper
}

//NumBins returns the number of bins the mapper produces.
func (m *BinMapper) NumBins() int { return len(m.UpperBounds) }

//ValueToBin maps a raw feature value to its bin id.
func (m *BinMapper) ValueToBin(value float64) uint32 {
	if m.Type == CategoricalBin {
		pos := sort.SearchFloat64s(m.UpperBounds, value)
		if pos == len(m.UpperBounds) || m.UpperBounds[pos] != value {
			log.Panicf("unknown category %v", value)
		}
		return uint32(pos)
	}
	return uint32(sort.Search(len(m.UpperBounds), func(i int) bool { return value <= m.UpperBounds[i] }))
}

//BinToValue returns the original-unit threshold recorded for a bin: the bin's
//upper bound for a numerical feature, the category code for a categorical one.
func (m *BinMapper) BinToValue(bin uint32) float64 { return m.UpperBounds[bin] }

func distinctSorted(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	distinct := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	return distinct
}

//Dataset is the binned view of a raw feature matrix. All bin ids live in one
//Uint32 tensor of feature-major shape (numFeatures, numData), so a feature
//column is a contiguous stripe of the backing array and per-chunk iterators
//share no state.
type Dataset struct {
	numData     int
	numFeatures int
	mappers     []*BinMapper
	bins        *tensor.Dense
	raw         []uint32
}

//NewDataset bins every column of a raw feature matrix. Columns listed in
//categoricalFeatures are binned as categories, the rest numerically.
func NewDataset(features *mat.Dense, maxBins int, categoricalFeatures []int) *Dataset {
	h, w := features.Dims()
	if h < 1 || w < 1 {
		log.Panicf("cannot bin an empty matrix, dims %dx%d", h, w)
	}
	if maxBins < 2 {
		log.Panicf("at least two bins are required, got maxBins=%d", maxBins)
	}
	categorical := make(map[int]bool)
	for _, q := range categoricalFeatures {
		categorical[q] = true
	}

	d := &Dataset{numData: h, numFeatures: w}
	d.mappers = make([]*BinMapper, w)
	d.bins = tensor.New(tensor.WithShape(w, h), tensor.Of(tensor.Uint32))

	column := make([]float64, h)
	for q := 0; q < w; q++ {
		mat.Col(column, q, features)
		binType := NumericalBin
		if categorical[q] {
			binType = CategoricalBin
		}
		d.mappers[q] = NewBinMapper(column, maxBins, binType)
		for p := 0; p < h; p++ {
			HandleError(d.bins.SetAt(d.mappers[q].ValueToBin(column[p]), q, p))
		}
	}
	d.raw = d.bins.Data().([]uint32)
	return d
}

//NumData returns the number of rows.
func (d *Dataset) NumData() int { return d.numData }

//NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int { return d.numFeatures }

//Mapper returns the bin mapper of one feature.
func (d *Dataset) Mapper(feature int) *BinMapper { return d.mappers[feature] }

//BinAt returns the bin id of one cell.
func (d *Dataset) BinAt(row, feature int) uint32 { return d.raw[feature*d.numData+row] }

//BinIterator walks the binned values of one feature column. Every scoring
//chunk builds its own iterators, so concurrent chunks never share a cursor.
type BinIterator struct {
	column []uint32
}

//Get returns the bin id of the given row.
func (it BinIterator) Get(row int) uint32 { return it.column[row] }

//FeatureIterator returns an iterator over one feature column seeded at
//startRow, the first row the calling chunk will read.
func (d *Dataset) FeatureIterator(feature, startRow int) BinIterator {
	if startRow < 0 || startRow >= d.numData {
		log.Panicf("iterator start row %d is outside of %d rows", startRow, d.numData)
	}
	return BinIterator{column: d.raw[feature*d.numData : (feature+1)*d.numData]}
}

//ReadNpy reads the content of a npy file into a dense matrix.
func ReadNpy(fileName string) (denseMat *mat.Dense) {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	denseMat = &mat.Dense{}
	HandleError(r.Read(denseMat))
	return
}

//ReadDataset loads a raw feature matrix from a npy file and bins it.
func ReadDataset(fileName string, maxBins int, categoricalFeatures []int) *Dataset {
	log.Print("\ttry to load features <", fileName, ">")
	return NewDataset(ReadNpy(fileName), maxBins, categoricalFeatures)
}
