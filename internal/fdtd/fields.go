package fdtd

import "github.com/san-kum/cavsim/internal/dynamo"

// Field is a row-major 2-D array; element (i, j) lives at Data[i*Cols+j].
type Field struct {
	Rows, Cols int
	Data       dynamo.Series
}

func NewField(rows, cols int) *Field {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Field{Rows: rows, Cols: cols, Data: make(dynamo.Series, rows*cols)}
}

func (f *Field) At(i, j int) float64     { return f.Data[i*f.Cols+j] }
func (f *Field) Set(i, j int, v float64) { f.Data[i*f.Cols+j] = v }

// Row returns the backing slice of row i.
func (f *Field) Row(i int) []float64 {
	return f.Data[i*f.Cols : (i+1)*f.Cols]
}

func (f *Field) Clone() *Field {
	return &Field{Rows: f.Rows, Cols: f.Cols, Data: f.Data.Clone()}
}

// FieldState holds the staggered TMz components. Ez is Nx×Ny, Hx is
// Nx×(Ny−1) (half cell in y) and Hy is (Nx−1)×Ny (half cell in x).
type FieldState struct {
	Nx, Ny int
	Ez     *Field
	Hx     *Field
	Hy     *Field
}

// AllocateFields returns zeroed field arrays for an Nx×Ny Ez grid.
func AllocateFields(nx, ny int) *FieldState {
	return &FieldState{
		Nx: nx,
		Ny: ny,
		Ez: NewField(nx, ny),
		Hx: NewField(nx, ny-1),
		Hy: NewField(nx-1, ny),
	}
}

func (s *FieldState) Reset() {
	s.Ez.Data.Zero()
	s.Hx.Data.Zero()
	s.Hy.Data.Zero()
}

// Snapshot returns a deep copy detached from the running state.
func (s *FieldState) Snapshot() *FieldState {
	return &FieldState{Nx: s.Nx, Ny: s.Ny, Ez: s.Ez.Clone(), Hx: s.Hx.Clone(), Hy: s.Hy.Clone()}
}

// IsValid reports whether every component is finite.
func (s *FieldState) IsValid() bool {
	return s.Ez.Data.IsValid() && s.Hx.Data.IsValid() && s.Hy.Data.IsValid()
}
