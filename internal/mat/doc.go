// Package mat reads MATLAB level-5 MAT-files into named numeric arrays.
// Only the subset the datasets actually use is supported: uncompressed and
// zlib-compressed top-level elements, numeric matrix classes, little and big
// endian files. Values are returned exactly as stored (column-major, no
// transposition). Newer MAT v7.3 files are HDF5 containers and are handled
// by the secondary parser, not here. A minimal writer exists for producing
// small fixture files.
package mat
