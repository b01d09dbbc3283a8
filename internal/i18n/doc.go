// Package i18n holds the embedded diagnostic message catalogs (English and
// Simplified Chinese) and resolves a caller's language preference to the
// closest supported locale.
package i18n
