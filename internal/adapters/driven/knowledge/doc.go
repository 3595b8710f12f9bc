// Package knowledge loads a domain-knowledge document and slices it into
// fixed-size chunks for the assistant's corpus.
//
// PDFs are converted with the pdftotext command from poppler-utils. Plain
// text and markdown files are read directly. A missing document yields no
// chunks.
package knowledge
