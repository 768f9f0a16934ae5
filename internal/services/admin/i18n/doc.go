// Package i18n provides localization helpers for the admin console.
//
// The console ships in English and Arabic; Arabic pages render right to left.
package i18n
