// Package hobby fits smooth curves through polyline knots. It provides an
// implementation of John Hobby's spline interpolation algorithm, reduced to
// what re-splining of line features needs: smooth knots, per-join tensions,
// open paths with neutral end curls, and cyclic paths.
/*

Spline interpolation by Hobby's algorithm results in aesthetically pleasing
curves superior to "normal" spline interpolation. The primary source of
information for "Hobby-splines" is:

   Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
   Computer Science Dept. Stanford University
   Report No. STAN-CS-85-1047, Jan 1985

The practical algorithm is explained in

   Computers & Typesetting, Vol. B & D.

The notation sticks closely to the original code in MetaFont.

Usage

Clients build a "skeleton" path and let the solver find the Bézier
control points:

   path := Nullpath().Knot(P(0,0)).Curve().Knot(P(2,3)).TensionCurve(1.4,1.4).Knot(P(5,3)).End()
   controls, err := FindHobbyControls(path, nil)

Through() is a shortcut for building a path from a slice of knots with a
uniform tension. Flatten() evaluates the resulting cubic Bézier segments
into a dense point sequence, which is what package polyline consumes.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package hobby
