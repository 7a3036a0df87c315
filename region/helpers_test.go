package region

import "github.com/skylark-imaging/cubeview/reduce"

func newPlaneFn(nx, ny int, fn func(x, y int) float64) *reduce.Plane {
	p := reduce.NewPlane(nx, ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			p.Set(x, y, fn(x, y))
		}
	}
	return p
}
