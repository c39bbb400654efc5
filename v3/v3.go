/*
 * v3.go, part of gomol
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

//Package v3 implements matrices of 3D vectors (Nx3 matrices) on top of
//gonum's mat.Dense, plus the few operations on them that the rest of
//the library needs. Within the package it is understood that a "vector"
//is a row of such a matrix, i.e. the cartesian coordinates of a point.
package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Matrix is a set of vectors in 3D space, stored as an Nx3 dense matrix.
type Matrix struct {
	*mat.Dense
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//VecView returns a view of the i-th vector of the matrix in the receiver.
//Changes in the view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//View returns a view of F starting from i,j and spanning r rows and
//c columns. Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

//NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//SetMatrix puts the matrix A in the receiver, starting from the ith row
//and jth col of the receiver.
func (F *Matrix) SetMatrix(i, j int, A *Matrix) {
	b := F.RawMatrix()
	ar, ac := A.Dims()
	fc := 3
	if ar+i > F.NVecs() || ac+j > fc {
		panic(ErrShape)
	}
	r := make([]float64, ac)
	for k := 0; k < ar; k++ {
		mat.Row(r, k, A.Dense)
		startpoint := fc*(k+i) + j
		copy(b.Data[startpoint:startpoint+ac], r)
	}
}

//SomeVecs puts in the receiver a matrix contaning the vectors of A
//with the indexes in clist, in that order. The receiver must have
//len(clist) vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	ar, _ := A.Dims()
	fr, _ := F.Dims()
	if fr != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		if val >= ar {
			panic(ErrIndexOutOfRange)
		}
		F.SetMatrix(key, 0, A.VecView(val))
	}
}

//SetVecs sets the vectors of the receiver with the indexes in clist
//to the vectors of A, in order. A must have len(clist) vectors.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	ar, _ := A.Dims()
	fr, _ := F.Dims()
	if ar != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		if val >= fr {
			panic(ErrIndexOutOfRange)
		}
		F.SetMatrix(val, 0, A.VecView(key))
	}
}

//AddVec adds the 1x3 vector vec to every vector of A, putting
//the result in the receiver. A and the receiver may be the same matrix.
func (F *Matrix) AddVec(A, vec *Matrix) {
	ar, ac := A.Dims()
	rr, rc := vec.Dims()
	fr, fc := F.Dims()
	if ac != rc || rr != 1 || ac != fc || ar != fr {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		j := A.VecView(i)
		f := F.VecView(i)
		f.Dense.Add(j.Dense, vec.Dense)
	}
}

//SubVec subtracts the 1x3 vector vec from every vector of A, putting
//the result in the receiver. A and the receiver may be the same matrix.
func (F *Matrix) SubVec(A, vec *Matrix) {
	ar, ac := A.Dims()
	rr, rc := vec.Dims()
	fr, fc := F.Dims()
	if ac != rc || rr != 1 || ac != fc || ar != fr {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		j := A.VecView(i)
		f := F.VecView(i)
		f.Dense.Sub(j.Dense, vec.Dense)
	}
}

//Sub subtracts B from A, putting the result in the receiver.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

//Add adds A and B, putting the result in the receiver.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

//Scale scales every element of A by v, putting the result in the receiver.
func (F *Matrix) Scale(v float64, A *Matrix) {
	F.Dense.Scale(v, A.Dense)
}

//Copy copies A into the receiver. Both must have the same dimensions.
func (F *Matrix) Copy(A *Matrix) {
	F.Dense.Copy(A.Dense)
}

//Norm returns the i-norm of the receiver. For a 1x3 vector and i=2 this
//is the Euclidean length.
func (F *Matrix) Norm(i float64) float64 {
	return mat.Norm(F.Dense, i)
}

//Stack puts A stacked over B in the receiver, which must have
//as many vectors as A and B combined.
func (F *Matrix) Stack(A, B *Matrix) {
	ar, _ := A.Dims()
	br, _ := B.Dims()
	if F.NVecs() < ar+br {
		panic(ErrShape)
	}
	F.SetMatrix(0, 0, A)
	F.SetMatrix(ar, 0, B)
}

//Errors

//Error is the error type for the package, compatible with the
//mol.Error interface.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics. It does satisfy the error
//interface, but for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("gomol/v3: A Matrix should have 3 columns")
	ErrShape           = PanicMsg("gomol/v3: Dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("gomol/v3: Index out of range")
)
