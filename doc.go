/*
Package pst contains a read-only decoder for the structured storage of
Personal Folders (.pst) files, in both the 32-bit ANSI and the 64-bit Unicode
generation.

Data Structure Documentation

File

A file starts with a header which locates the roots of two B-trees. The node
B-tree maps node IDs (NIDs) to the blocks holding a node's data and
sub-nodes, the block B-tree maps block IDs (BIDs) to file offsets.

    File layout:
    +--------+-------+-------+-------+-------+-----+
    | header | page  | block | block | page  | ... |
    +--------+-------+-------+-------+-------+-----+

    Header (offsets for ANSI / Unicode):
    +--------------+---------------+----------------+-----------------+------------------+------------------+
    | magic "!BDN" | CRC (4 bytes) | wVer (10 / 10) | ibFileEof       | NBT root (BREF)  | BBT root (BREF)  |
    |              |               |                | (168 / 184)     | (184 / 216)      | (192 / 232)      |
    +--------------+---------------+----------------+-----------------+------------------+------------------+

Page

B-tree pages are 512 bytes. Entries are followed by the entry counts and a
trailer. Intermediate pages (level > 0) hold (key, BREF) pairs where the key
is the smallest key of the child.

    Page layout:
    +-------------------+------+---------+-------+--------+--------------------------------+
    | entries (488/496) | cEnt | cEntMax | cbEnt | cLevel | trailer (ptype, sig, crc, bid) |
    +-------------------+------+---------+-------+--------+--------------------------------+

Block

Blocks hold up to 8192 bytes including a trailer and are aligned to 64
bytes. Data blocks may be encoded with one of two ciphers. A BID with bit
0x2 set is internal: its block is an XBLOCK (or XXBLOCK) listing the BIDs
of the data blocks which, concatenated, form the node's data.

    Block layout:
    +-----------------+---------+----------------------------------+
    | data (cb bytes) | padding | trailer (cb, sig, crc, bid)      |
    +-----------------+---------+----------------------------------+

    XBLOCK:
    +-----------+------------+-----------------+-----------------+-------+-------+
    | btype (1) | cLevel (1) | cEnt (2 bytes)  | lcbTotal (4)    | bid 1 |  ...  |
    +-----------+------------+-----------------+-----------------+-------+-------+

Heap-on-node

The data of most nodes is a heap. Every block of the data starts with the
offset of a page map which delimits the allocations within the block. An
allocation is addressed by a HID made up of the block index and a 1-based
allocation index.

    Heap block:
    +------------------------+--------------+-------+--------------+-------------------------------------+
    | header (ibHnpm, ...)   | allocation 1 |  ...  | allocation n | page map (cAlloc, cFree, rgibAlloc) |
    +------------------------+--------------+-------+--------------+-------------------------------------+

Tables and property contexts

A property context is a BTree-on-heap keyed by property ID. A table context
describes its columns in a TCINFO allocation and stores fixed-width rows,
each followed by a cell existence bitmap, either in a heap allocation or in
a sub-node.

    Row layout:
    +--------------------+-----------------+-----------------+-----------------------------+
    | 8 and 4 byte cells | 2 byte cells    | 1 byte cells    | cell existence bitmap (CEB) |
    +--------------------+-----------------+-----------------+-----------------------------+
*/
package pst
