// Package web embeds the single-page journal shell.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var files embed.FS

// DefaultManifest lists the shell assets an offline cache generation must hold.
var DefaultManifest = []string{
	"/",
	"/style.css",
	"/app.js",
	"/manifest.json",
	"/icons/icon-192.svg",
	"/icons/icon-512.svg",
}

func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Handler() http.Handler {
	return http.FileServerFS(Static())
}
