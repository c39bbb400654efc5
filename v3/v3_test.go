/*
 * v3_test.go, part of gomol
 *
 * Copyright 2023 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package v3

import (
	"fmt"
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Error(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("Wrong number of vectors: %d", A.NVecs())
	}
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("Expected error for a slice not divisible by 3")
	}
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Error(err)
	}
	B := Zeros(3)
	cind := []int{1, 3, 5}
	B.SomeVecs(A, cind)
	for i, v := range cind {
		for j := 0; j < 3; j++ {
			if B.At(i, j) != A.At(v, j) {
				Te.Errorf("Mismatch at %d,%d: %f vs %f", i, j, B.At(i, j), A.At(v, j))
			}
		}
	}
	fmt.Println("SomeVecs of A:", B)
	//Now the other direction.
	C := Zeros(6)
	C.SetVecs(B, cind)
	for i, v := range cind {
		if C.At(v, 0) != B.At(i, 0) {
			Te.Errorf("SetVecs mismatch at %d", v)
		}
	}
}

func TestSetMatrix(Te *testing.T) {
	F := Zeros(4)
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	F.SetMatrix(1, 0, A)
	if F.At(1, 0) != 1 || F.At(2, 2) != 6 || F.At(0, 0) != 0 || F.At(3, 0) != 0 {
		Te.Error("SetMatrix put the block in the wrong place", F)
	}
	//a partial-row block, to check the column offset
	B := Zeros(4)
	one := Zeros(1)
	one.Set(0, 0, 9)
	B.SetMatrix(2, 1, one.View(0, 0, 1, 1))
	if B.At(2, 1) != 9 || B.At(2, 0) != 0 || B.At(2, 2) != 0 {
		Te.Error("SetMatrix ignored the column offset", B)
	}
}

func TestAddVec(Te *testing.T) {
	a := []float64{0, 0, 0, 1, 1, 1, 2, 2, 2}
	A, _ := NewMatrix(a)
	t, _ := NewMatrix([]float64{10, 20, 30})
	A.AddVec(A, t)
	if A.At(0, 0) != 10 || A.At(1, 1) != 21 || A.At(2, 2) != 32 {
		Te.Error("AddVec gave the wrong result", A)
	}
	A.SubVec(A, t)
	if A.At(2, 2) != 2 {
		Te.Error("SubVec gave the wrong result", A)
	}
}

func TestNorm(Te *testing.T) {
	v, _ := NewMatrix([]float64{3, 4, 0})
	if math.Abs(v.Norm(2)-5) > appzero {
		Te.Error("Wrong norm", v.Norm(2))
	}
}

func TestStack(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2})
	B, _ := NewMatrix([]float64{3, 3, 3})
	F := Zeros(3)
	F.Stack(A, B)
	if F.At(2, 0) != 3 || F.At(0, 0) != 1 {
		Te.Error("Stack gave the wrong result", F)
	}
}
