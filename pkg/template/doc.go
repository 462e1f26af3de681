// Package template renders the comment headers and directive blocks that
// frame each artifact. Templates are pongo2 documents loaded from an fs.FS or
// a directory, so operators can override the default blocks shipped with each
// dialect without rebuilding.
package template
