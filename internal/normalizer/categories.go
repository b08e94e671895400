package normalizer

import "trsi/internal/assets"

// Category declares how entries of one content type become output items.
type Category struct {
	// ContentType selects entries by their content type ID.
	ContentType string
	// Plural names the output key and file.
	Plural string
	Fields []FieldSpec
}

// Content type identifiers of the export.
const (
	TypeProductions = "productions"
	TypeGraphics    = "graphics"
	TypeMusic       = "music"
	TypeMembers     = "members"
	TypePosts       = "posts"
)

// DefaultMusicImage is shown for tracks without cover art.
const DefaultMusicImage = "/img/music-player.webp"

// Productions lists demos, intros and other releases.
func Productions() Category {
	return Category{
		ContentType: TypeProductions,
		Plural:      "productions",
		Fields: []FieldSpec{
			Required("title", "title"),
			Required("type", "type"),
			Text("release_date", "releaseDate"),
			Summary("description", "description"),
			Text("nfo_text", "infoText"),
			Image("card_image", "image", assets.RenditionCard, ""),
			Image("image", "image", assets.RenditionOrig, ""),
			Nullable("download", "downloadUrl"),
			Text("platform", "platform"),
			YouTube("youtube", "youTubeUrl"),
			Nullable("pouet", "pouetUrl"),
			Nullable("demozoo", "demozooUrl"),
			Nullable("csdb", "csdbUrl"),
			Credits("credits", "credits"),
			Tags("tags"),
		},
	}
}

// Graphics lists artworks; the download is the full-size image.
func Graphics() Category {
	return Category{
		ContentType: TypeGraphics,
		Plural:      "graphics",
		Fields: []FieldSpec{
			Required("title", "title"),
			Required("type", "type"),
			Nullable("platform", "platform"),
			Summary("description", "description"),
			Text("nfo_text", "infoText"),
			Nullable("release_date", "releaseDate"),
			Image("card_image", "image", assets.RenditionCard, ""),
			Image("image", "image", assets.RenditionOrig, ""),
			Image("download", "image", assets.RenditionOrig, ""),
			Nullable("demozoo", "demozooUrl"),
			Credits("credits", "credits"),
		},
	}
}

// Music lists tracks. Tracks without cover art show fallbackImage.
func Music(fallbackImage string) Category {
	return Category{
		ContentType: TypeMusic,
		Plural:      "music",
		Fields: []FieldSpec{
			Required("title", "title"),
			Required("type", "type"),
			Nullable("platform", "platform"),
			Text("nfo_text", "infoText"),
			Summary("description", "description"),
			Nullable("release_date", "releaseDate"),
			Image("card_image", "image", assets.RenditionCard, fallbackImage),
			Image("image", "image", assets.RenditionOrig, fallbackImage),
			Nullable("download", "download"),
			Nullable("demozoo", "demozooUrl"),
			Credits("credits", "credits"),
			Tags("tags"),
		},
	}
}

// Members lists group members.
func Members() Category {
	return Category{
		ContentType: TypeMembers,
		Plural:      "members",
		Fields: []FieldSpec{
			Required("name", "name"),
			Text("handle", "handle"),
			Text("role", "role"),
			Nullable("country", "country"),
			Summary("description", "description"),
			Image("avatar", "avatar", assets.RenditionPost, ""),
			Strings("groups", "groups"),
		},
	}
}

// Posts lists news posts.
func Posts() Category {
	return Category{
		ContentType: TypePosts,
		Plural:      "posts",
		Fields: []FieldSpec{
			Required("title", "title"),
			Slug("slug", "title"),
			Body("body", "body"),
			Nullable("publish_date", "publishDate"),
			Image("image", "image", assets.RenditionPost, ""),
		},
	}
}

// DefaultCategories returns every category the site renders.
func DefaultCategories(musicFallback string) []Category {
	if musicFallback == "" {
		musicFallback = DefaultMusicImage
	}

	return []Category{
		Productions(),
		Members(),
		Graphics(),
		Music(musicFallback),
		Posts(),
	}
}
