// Package transfer applies and removes Content-transfer-encodings. Only
// quoted-printable and base64 change the bytes. Other encodings such as binary,
// 7bit, or 8bit leave the bytes as-is.
package transfer
