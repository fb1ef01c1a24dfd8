package auth

import "crypto/md5"

// OfflineUUID reproduces Java's UUID.nameUUIDFromBytes(("OfflinePlayer:" +
// name).getBytes(UTF_8)): a version-3 (name-based MD5) UUID computed
// directly over those bytes, no namespace prefix — unlike RFC 4122's
// nameUUIDFromBytes via a namespace, Java's overload just MD5s the raw
// input and stamps the version/variant bits onto the digest. Used for
// players when encryption (and therefore Mojang verification) is
// disabled.
func OfflineUUID(username string) [16]byte {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	return sum
}
