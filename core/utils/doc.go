// Package utils provides value conversion helpers shared by the loader, the dataset
// model and the reconciler. Cell values arrive from many decoders (JSON numbers,
// pickled integers, statistical file series) and are coerced here.
package utils
