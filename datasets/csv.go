package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/logitreg/pkg/errors"
)

// ReadCSV parses numeric rows from r into a feature matrix and a label
// vector taken from column labelCol. A negative labelCol counts from the end,
// so -1 selects the last column. When header is true the first record is
// skipped.
func ReadCSV(r io.Reader, labelCol int, header bool) (*mat.Dense, *mat.VecDense, error) {
	const op = "ReadCSV"

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, op)
	}
	if header && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, nil, errors.NewModelError(op, "no data rows", errors.ErrEmptyData)
	}

	nCols := len(records[0])
	if nCols < 2 {
		return nil, nil, errors.NewValueError(op, "at least one feature column and one label column are required")
	}
	if labelCol < 0 {
		labelCol += nCols
	}
	if labelCol < 0 || labelCol >= nCols {
		return nil, nil, errors.NewValueError(op, fmt.Sprintf("label column %d out of range for %d columns", labelCol, nCols))
	}

	X := mat.NewDense(len(records), nCols-1, nil)
	y := mat.NewVecDense(len(records), nil)
	for i, record := range records {
		col := 0
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "%s: row %d column %d", op, i+1, j+1)
			}
			if j == labelCol {
				y.SetVec(i, v)
				continue
			}
			X.Set(i, col, v)
			col++
		}
	}
	return X, y, nil
}
