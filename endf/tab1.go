package endf

// Tab1 is the body of a TAB1 record: NR interpolation regions followed by
// NP (x, y) pairs.
type Tab1 struct {
	NBT []int
	INT []int
	X   []float64
	Y   []float64
}

// Tab1Body reads nr (NBT, INT) pairs and np (x, y) pairs from the lines
// following the TAB1 header.
func (c *Cursor) Tab1Body(nr, np int) Tab1 {
	var tab Tab1
	ints := c.IntVec(2 * nr)
	for i := 0; i < nr; i++ {
		tab.NBT = append(tab.NBT, ints[2*i])
		tab.INT = append(tab.INT, ints[2*i+1])
	}
	floats := c.FloatVec(2 * np)
	for i := 0; i < np; i++ {
		tab.X = append(tab.X, floats[2*i])
		tab.Y = append(tab.Y, floats[2*i+1])
	}
	return tab
}
