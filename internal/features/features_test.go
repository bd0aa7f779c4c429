package features

import (
	"os"
	"path/filepath"
	"testing"

	"shipment-predictor/internal/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trainedColumns mirrors a schema saved after one-hot encoding with one
// category of each field dropped.
var trainedColumns = []string{
	"Customer_care_calls", "Customer_rating", "Cost_of_the_Product",
	"Prior_purchases", "Product_importance", "Gender", "Discount_offered",
	"Weight_in_gms", "Cost_to_Weight_ratio",
	"Warehouse_block_B", "Warehouse_block_C", "Warehouse_block_D", "Warehouse_block_F",
	"Mode_of_Shipment_Road", "Mode_of_Shipment_Ship",
}

func TestCostToWeight(t *testing.T) {
	assert.Equal(t, 0.4, CostToWeight(1000, 2500))
	assert.Equal(t, 0.3333, CostToWeight(1000, 3000))
	assert.Equal(t, 50.0, CostToWeight(5000, 100))
	assert.Equal(t, CostToWeight(777, 1234), CostToWeight(777, 1234))
}

func TestCostToWeight_Midpoints(t *testing.T) {
	tests := []struct {
		cost   float64
		weight int
		want   float64
	}{
		{50, 320, 0.1562},
		{51, 160, 0.3187},
		{50, 1600, 0.0312},
		{50, 8000, 0.0063},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CostToWeight(tt.cost, tt.weight), "%v/%d", tt.cost, tt.weight)
	}
}

func TestEncode(t *testing.T) {
	in := shipment.Default()
	in.WarehouseBlock = shipment.BlockD
	in.Mode = shipment.ModeFlight
	in.Importance = shipment.ImportanceMedium
	in.Gender = shipment.GenderFemale

	v, err := Encode(in)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ID", "Customer_care_calls", "Customer_rating", "Cost_of_the_Product",
		"Prior_purchases", "Product_importance", "Gender", "Discount_offered",
		"Weight_in_gms", "Cost_to_Weight_ratio", "Warehouse_block_D", "Mode_of_Shipment_Flight",
	}, v.Names())

	cases := map[string]float64{
		ColID:                     0,
		ColImportance:             1,
		ColGender:                 1,
		ColCostToWeight:           0.4,
		ColWeightInGms:            2500,
		"Warehouse_block_D":       1,
		"Mode_of_Shipment_Flight": 1,
	}
	for name, want := range cases {
		got, ok := v.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := v.Get("Warehouse_block_A")
	assert.False(t, ok, "unselected one-hot columns are absent before alignment")
}

func TestEncode_OrdinalMaps(t *testing.T) {
	for imp, want := range map[shipment.Importance]float64{"low": 0, "medium": 1, "high": 2} {
		in := shipment.Default()
		in.Importance = imp
		v, err := Encode(in)
		require.NoError(t, err)
		got, _ := v.Get(ColImportance)
		assert.Equal(t, want, got, string(imp))
	}
	for g, want := range map[shipment.Gender]float64{"M": 0, "F": 1} {
		in := shipment.Default()
		in.Gender = g
		v, err := Encode(in)
		require.NoError(t, err)
		got, _ := v.Get(ColGender)
		assert.Equal(t, want, got, string(g))
	}
}

func TestEncode_InvalidCategory(t *testing.T) {
	in := shipment.Default()
	in.Importance = "urgent"
	_, err := Encode(in)
	assert.ErrorIs(t, err, shipment.ErrInvalidCategory)

	in = shipment.Default()
	in.WarehouseBlock = "E"
	_, err = Encode(in)
	assert.ErrorIs(t, err, shipment.ErrInvalidCategory)
}

func TestAlign_MatchesSchemaForEveryCategory(t *testing.T) {
	s, err := NewSchema(trainedColumns)
	require.NoError(t, err)

	for _, b := range shipment.WarehouseBlocks {
		for _, m := range shipment.Modes {
			in := shipment.Default()
			in.WarehouseBlock = b
			in.Mode = m

			v, err := Encode(in)
			require.NoError(t, err)
			row := Align(v, s)

			require.Equal(t, trainedColumns, row.Columns)
			require.Len(t, row.Values, len(trainedColumns))

			var hot int
			for i, c := range row.Columns {
				if c == WarehouseColumn(b) || c == ModeColumn(m) {
					assert.Equal(t, 1.0, row.Values[i], c)
				}
				if i >= 9 && row.Values[i] == 1 {
					hot++
				}
			}
			// Block A and Flight have no column in this schema.
			want := 0
			if b != shipment.BlockA {
				want++
			}
			if m != shipment.ModeFlight {
				want++
			}
			assert.Equal(t, want, hot, "%s/%s", b, m)
		}
	}
}

func TestAlign_FillsMissingAndDropsExtra(t *testing.T) {
	s, err := NewSchema([]string{"Weight_in_gms", "Not_produced", "Mode_of_Shipment_Road"})
	require.NoError(t, err)

	in := shipment.Default()
	in.Mode = shipment.ModeRoad
	v, err := Encode(in)
	require.NoError(t, err)

	row := Align(v, s)
	assert.Equal(t, []string{"Weight_in_gms", "Not_produced", "Mode_of_Shipment_Road"}, row.Columns)
	assert.Equal(t, []float64{2500, 0, 1}, row.Values)
	assert.Contains(t, Dropped(v, s), ColID)
	assert.NotContains(t, Dropped(v, s), ColWeightInGms)
}

func TestAlign_DoesNotShareSchemaSlice(t *testing.T) {
	s, err := NewSchema([]string{"Gender"})
	require.NoError(t, err)

	v, err := Encode(shipment.Default())
	require.NoError(t, err)
	row := Align(v, s)
	row.Columns[0] = "mutated"

	assert.Equal(t, []string{"Gender"}, s.Names())
}

func TestNewSchema_Errors(t *testing.T) {
	_, err := NewSchema(nil)
	assert.ErrorIs(t, err, ErrEmptySchema)

	_, err = NewSchema([]string{"a", "b", "a"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = NewSchema([]string{"a", " "})
	assert.Error(t, err)
}

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"cols.json": `["Gender", "Weight_in_gms", "Mode_of_Shipment_Road"]`,
		"cols.yaml": "- Gender\n- Weight_in_gms\n- Mode_of_Shipment_Road\n",
		"cols.txt":  "# trained columns\nGender\n\nWeight_in_gms\nMode_of_Shipment_Road\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			s, err := LoadSchema(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"Gender", "Weight_in_gms", "Mode_of_Shipment_Road"}, s.Names())
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("corrupt json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"`), 0o600))
		_, err := LoadSchema(path)
		assert.Error(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))
		_, err := LoadSchema(path)
		assert.ErrorIs(t, err, ErrEmptySchema)
	})

	t.Run("pickle", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(dir, "feature_columns.pkl"))
		assert.ErrorIs(t, err, ErrPickledSchema)
	})
}

func TestAllColumns(t *testing.T) {
	cols := AllColumns()
	assert.Len(t, cols, 10+len(shipment.WarehouseBlocks)+len(shipment.Modes))
	_, err := NewSchema(cols)
	assert.NoError(t, err)
}
