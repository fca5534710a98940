// Package vector implements client-side codecs for the pgvecto.rs vector
// types. It includes:
//   - Vector and Float16Vector: dense float32/float16 vectors (one generic Dense codec)
//   - BinaryVector: bit vectors packed into little-endian 64-bit words
//   - SparseVector: canonical (index, value) pairs with an explicit dimension
//   - Codec: the text/binary adapter entry points used by driver integrations
//
// Wire formats:
//
//	vector   text [v1,v2,...]     binary u16 count + count x f32
//	vecf16   text [v1,v2,...]     binary u16 count + count x f16
//	bvector  text [0,1,...]       binary u16 bits + ceil(bits/64) x u64
//	svector  text {i:v,...}/dim   binary u32 dim + u32 nnz + nnz x u32 + nnz x f32
//
// All integers and floats are little-endian. Values are immutable after
// construction and safe for concurrent use.
package vector
